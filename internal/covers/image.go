package covers

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Status describes the outcome of a cover render.
type Status int

const (
	// StatusFound means a file was located, decoded and scaled.
	StatusFound Status = iota
	// StatusMissing means no candidate file existed.
	StatusMissing
	// StatusInvalid means a file existed but could not be decoded.
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusMissing:
		return "missing"
	default:
		return "invalid"
	}
}

// Rendered is the result of resolving a cover: either the scaled source
// image or a placeholder whose message explains what went wrong. Callers
// should not branch on the message text, only on Status.
type Rendered struct {
	Image      image.Image
	Status     Status
	Message    string
	SourcePath string
}

// Renderer resolves and scales covers against a base directory.
type Renderer struct {
	baseDir   string
	maxWidth  int
	maxHeight int
}

// NewRenderer creates a Renderer with the given resolution root and
// display bounds.
func NewRenderer(baseDir string, maxWidth, maxHeight int) *Renderer {
	return &Renderer{
		baseDir:   baseDir,
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
	}
}

// Render resolves the declared cover path for a book and produces a scaled
// image, or a placeholder when the file is missing or undecodable.
func (r *Renderer) Render(declared string, bookID uint) Rendered {
	path, ok := Resolve(declared, bookID, r.baseDir)
	if !ok {
		msg := fmt.Sprintf("Image not found: %s (tried project root, covers/ and images/ folders)",
			firstCandidate(declared, bookID))
		return Rendered{
			Image:   Placeholder(msg, r.maxWidth, r.maxHeight),
			Status:  StatusMissing,
			Message: msg,
		}
	}

	f, err := os.Open(path)
	if err != nil {
		msg := fmt.Sprintf("Error loading image: %s", path)
		return Rendered{
			Image:   Placeholder(msg, r.maxWidth, r.maxHeight),
			Status:  StatusInvalid,
			Message: msg,
		}
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		msg := fmt.Sprintf("Invalid image file: %s", path)
		return Rendered{
			Image:      Placeholder(msg, r.maxWidth, r.maxHeight),
			Status:     StatusInvalid,
			Message:    msg,
			SourcePath: path,
		}
	}

	return Rendered{
		Image:      ScaleToFit(src, r.maxWidth, r.maxHeight),
		Status:     StatusFound,
		SourcePath: path,
	}
}

func firstCandidate(declared string, bookID uint) string {
	return Candidates(declared, bookID)[0]
}

// ScaleToFit scales src so it fits inside maxWidth x maxHeight while
// preserving aspect ratio. The scale factor is the smaller of the width-fit
// and height-fit ratios, so the result is fully contained and undistorted.
func ScaleToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return src
	}

	scaleX := float64(maxWidth) / float64(srcW)
	scaleY := float64(maxHeight) / float64(srcH)
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}

	dstW := int(float64(srcW) * scale)
	dstH := int(float64(srcH) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}
	if dstW == srcW && dstH == srcH {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

// Placeholder renders a light-gray image with the message text centered in
// it, line-wrapped to the available width.
func Placeholder(message string, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	bg := color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}
	fg := color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, bg)
		}
	}

	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil() + 2
	lines := wrapText(message, width-20, face)

	startY := height/2 - (len(lines)*lineHeight)/2
	if startY < lineHeight {
		startY = lineHeight
	}

	for i, line := range lines {
		lineWidth := font.MeasureString(face, line).Ceil()
		x := (width - lineWidth) / 2
		if x < 10 {
			x = 10
		}
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(fg),
			Face: face,
			Dot:  fixed.P(x, startY+i*lineHeight),
		}
		d.DrawString(line)
	}

	return img
}

// wrapText splits text into lines that fit within maxWidth pixels.
func wrapText(text string, maxWidth int, face font.Face) []string {
	var lines []string
	var current string

	for _, word := range splitWords(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if font.MeasureString(face, candidate).Ceil() <= maxWidth || current == "" {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func splitWords(text string) []string {
	var words []string
	var word []rune
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			if len(word) > 0 {
				words = append(words, string(word))
				word = word[:0]
			}
			continue
		}
		word = append(word, r)
	}
	if len(word) > 0 {
		words = append(words, string(word))
	}
	return words
}

// EncodePNG serializes an image as PNG bytes for HTTP responses and the
// on-disk cache.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
