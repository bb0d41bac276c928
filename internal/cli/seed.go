package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlokans/mylibrary/internal/auth"
	"github.com/mrlokans/mylibrary/internal/config"
	"github.com/mrlokans/mylibrary/internal/covers"
	"github.com/mrlokans/mylibrary/internal/database"
	"github.com/mrlokans/mylibrary/internal/database/books"
	"github.com/mrlokans/mylibrary/internal/entities"
)

// SeedCommand populates a fresh database with a demo account, a handful of
// books and generated cover images.
type SeedCommand struct {
	DatabasePath string
	CoversDir    string
	Username     string
	Password     string
}

// NewSeedCommand creates a new SeedCommand.
func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

// ParseFlags parses command line flags.
func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the library database file")
	fs.StringVar(&cmd.CoversDir, "covers-dir", ".", "Directory to write sample cover images into")
	fs.StringVar(&cmd.Username, "username", "demo", "Username for the demo account")
	fs.StringVar(&cmd.Password, "password", "demo-password", "Password for the demo account")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Populate the database with demo data and sample covers.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s seed\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s seed -db ./library.db -covers-dir ./covers\n", os.Args[0])
	}

	return fs.Parse(args)
}

type sampleBook struct {
	title         string
	authorName    string
	authorSurname string
	year          int
	pages         int
	cover         string
	status        entities.ReadStatus
	rating        int
	releaseInDays int
}

func sampleBooks() []sampleBook {
	return []sampleBook{
		{"Dune", "Frank", "Herbert", 1965, 412, "Book1.jpg", entities.StatusRead, 5, 0},
		{"The Left Hand of Darkness", "Ursula", "Le Guin", 1969, 304, "Book2.jpg", entities.StatusRead, 4, 0},
		{"Hyperion", "Dan", "Simmons", 1989, 482, "Book3.jpg", entities.StatusUnread, 0, 0},
		{"The Dispossessed", "Ursula", "Le Guin", 1974, 341, "Book4.jpg", entities.StatusUnread, 0, 0},
		{"Children of Dune", "Frank", "Herbert", 1976, 444, "Book5.jpg", entities.StatusWantToRead, 0, 30},
	}
}

// Run executes the command.
func (cmd *SeedCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	service := auth.NewService(db.DB, cfg.Auth)

	user, err := service.CreateUser(cmd.Username, cmd.Password, entities.UserRoleMember)
	if err != nil {
		return fmt.Errorf("failed to create demo user: %w", err)
	}
	fmt.Printf("Created demo account %q (id %d)\n", user.Username, user.ID)

	repo := books.NewRepository(db.DB)
	for _, sample := range sampleBooks() {
		var releaseDate *time.Time
		if sample.releaseInDays > 0 {
			d := time.Now().AddDate(0, 0, sample.releaseInDays)
			releaseDate = &d
		}

		bookID, err := repo.AddBook(user.ID, books.AddBookInput{
			Title:         sample.title,
			AuthorName:    sample.authorName,
			AuthorSurname: sample.authorSurname,
			Year:          sample.year,
			NumberOfPages: sample.pages,
			Cover:         sample.cover,
			ReadStatus:    sample.status,
			Rating:        sample.rating,
			ReleaseDate:   releaseDate,
		})
		if err != nil {
			return fmt.Errorf("failed to add %q: %w", sample.title, err)
		}
		fmt.Printf("Added %q by %s %s (id %d)\n", sample.title, sample.authorName, sample.authorSurname, bookID)
	}

	absCoversDir, err := filepath.Abs(cmd.CoversDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for covers: %w", err)
	}

	created, err := covers.CreateSampleCovers(absCoversDir)
	if err != nil {
		return fmt.Errorf("failed to create sample covers: %w", err)
	}
	if len(created) > 0 {
		fmt.Printf("Wrote %d sample covers to %s\n", len(created), absCoversDir)
	}

	fmt.Println("Seed complete")
	return nil
}
