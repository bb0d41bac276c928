package covers

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	sampleWidth  = 200
	sampleHeight = 300
)

var sampleColors = []color.RGBA{
	{R: 70, G: 130, B: 180, A: 255},  // Steel Blue
	{R: 220, G: 20, B: 60, A: 255},   // Crimson
	{R: 34, G: 139, B: 34, A: 255},   // Forest Green
	{R: 255, G: 140, B: 0, A: 255},   // Dark Orange
	{R: 138, G: 43, B: 226, A: 255},  // Blue Violet
}

// CreateSampleCovers writes Book1.jpg through Book5.jpg into dir, each a
// solid-color 200x300 cover with the book label on a white band. Existing
// files are left alone. Returns the filenames that were created.
func CreateSampleCovers(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create sample dir: %w", err)
	}

	var created []string
	for i := 1; i <= len(sampleColors); i++ {
		filename := DefaultName(uint(i))
		path := filepath.Join(dir, filename)

		if _, err := os.Stat(path); err == nil {
			continue
		}

		img := drawSampleCover(i, sampleColors[i-1])
		f, err := os.Create(path)
		if err != nil {
			return created, fmt.Errorf("create %s: %w", filename, err)
		}
		if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
			f.Close()
			return created, fmt.Errorf("encode %s: %w", filename, err)
		}
		if err := f.Close(); err != nil {
			return created, err
		}
		created = append(created, filename)
	}

	return created, nil
}

func drawSampleCover(n int, bg color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, sampleWidth, sampleHeight))

	for y := 0; y < sampleHeight; y++ {
		for x := 0; x < sampleWidth; x++ {
			img.Set(x, y, bg)
		}
	}

	// White label band in the middle
	for y := 100; y < 160; y++ {
		for x := 50; x < 150; x++ {
			img.Set(x, y, color.White)
		}
	}

	// Thin black frame
	for x := 0; x < sampleWidth; x++ {
		img.Set(x, 0, color.Black)
		img.Set(x, sampleHeight-1, color.Black)
	}
	for y := 0; y < sampleHeight; y++ {
		img.Set(0, y, color.Black)
		img.Set(sampleWidth-1, y, color.Black)
	}

	label := fmt.Sprintf("Book-%d", n)
	face := basicfont.Face7x13
	labelWidth := font.MeasureString(face, label).Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P((sampleWidth-labelWidth)/2, 135),
	}
	d.DrawString(label)

	return img
}
