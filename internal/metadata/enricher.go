package metadata

import (
	"context"
	"fmt"

	"github.com/mrlokans/mylibrary/internal/database/books"
	"github.com/mrlokans/mylibrary/internal/entities"
)

// EnrichmentResult describes what an enrichment run changed.
type EnrichmentResult struct {
	Book          *entities.Book
	FieldsUpdated []string
}

// Enricher fills missing catalog fields from OpenLibrary. Existing values are
// never overwritten.
type Enricher struct {
	books  *books.Repository
	client *OpenLibraryClient
}

// NewEnricher creates an Enricher backed by the given catalog repository and
// OpenLibrary client.
func NewEnricher(booksRepo *books.Repository, client *OpenLibraryClient) *Enricher {
	return &Enricher{books: booksRepo, client: client}
}

// EnrichBook looks a book up by title and author and fills in any missing
// description, page count and year.
func (e *Enricher) EnrichBook(ctx context.Context, bookID uint) (*EnrichmentResult, error) {
	book, err := e.books.GetCatalogBook(bookID)
	if err != nil {
		return nil, fmt.Errorf("load book %d: %w", bookID, err)
	}

	result := &EnrichmentResult{Book: book}
	if book.About != "" && book.NumberOfPages > 0 && book.Year > 0 {
		return result, nil
	}

	authorName := book.Author.FullName()

	meta, err := e.client.Search(ctx, book.Title, authorName)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", book.Title, err)
	}

	fields := map[string]any{}
	if book.About == "" && meta.Description != "" {
		fields["about"] = meta.Description
		result.FieldsUpdated = append(result.FieldsUpdated, "about")
	}
	if book.NumberOfPages == 0 && meta.PageCount > 0 {
		fields["number_of_pages"] = meta.PageCount
		result.FieldsUpdated = append(result.FieldsUpdated, "number_of_pages")
	}
	if book.Year == 0 && meta.FirstPublishYear > 0 {
		fields["year"] = meta.FirstPublishYear
		result.FieldsUpdated = append(result.FieldsUpdated, "year")
	}

	if err := e.books.UpdateCatalogFields(bookID, fields); err != nil {
		return nil, fmt.Errorf("persist enrichment for book %d: %w", bookID, err)
	}
	return result, nil
}
