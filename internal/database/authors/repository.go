// Package authors provides database operations for author management.
//
// Authors are shared catalog rows: they are created on first reference by
// exact (name, surname) and never deleted.
//
// # Usage
//
//	repo := authors.NewRepository(db)
//	author, err := repo.FindOrCreate("Frank", "Herbert", "")
package authors

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/mylibrary/internal/entities"
)

var ErrNoActiveUser = errors.New("no active user")

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindOrCreate returns the author with the exact (name, surname) pair,
// inserting a new row when none exists. Calling it twice with identical
// input yields the same author both times.
func (r *Repository) FindOrCreate(name, surname, website string) (*entities.Author, error) {
	var author entities.Author
	err := r.db.Where("name = ? AND surname = ?", name, surname).First(&author).Error
	if err == nil {
		return &author, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup author: %w", err)
	}

	author = entities.Author{Name: name, Surname: surname, Website: website}
	if err := r.db.Create(&author).Error; err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}
	return &author, nil
}

// Create inserts a new author row. Used by the explicit add-author form;
// duplicates on (name, surname) are rejected by the unique index.
func (r *Repository) Create(name, surname, website string) (*entities.Author, error) {
	author := entities.Author{Name: name, Surname: surname, Website: website}
	if err := r.db.Create(&author).Error; err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}
	return &author, nil
}

// GetByID retrieves a single author.
func (r *Repository) GetByID(id uint) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.First(&author, id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// List returns all authors ordered by surname, then name.
func (r *Repository) List() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Order("surname ASC, name ASC").Find(&authors).Error
	return authors, err
}

// Search returns authors whose name or surname contains the term.
func (r *Repository) Search(term string) ([]entities.Author, error) {
	var authors []entities.Author
	pattern := "%" + term + "%"
	err := r.db.
		Where("name LIKE ? OR surname LIKE ?", pattern, pattern).
		Order("surname ASC, name ASC").
		Find(&authors).Error
	return authors, err
}

// Favorites returns the distinct authors of books the user rated 4 or more.
func (r *Repository) Favorites(userID uint) ([]entities.Author, error) {
	if userID == 0 {
		return nil, ErrNoActiveUser
	}

	var authors []entities.Author
	err := r.db.
		Distinct("authors.*").
		Joins("JOIN books ON books.author_id = authors.author_id").
		Joins("JOIN user_books ON user_books.book_id = books.book_id").
		Where("user_books.user_id = ? AND user_books.rating >= ?", userID, 4).
		Order("authors.surname ASC, authors.name ASC").
		Find(&authors).Error
	return authors, err
}
