package storage

import (
	"github.com/ultrapreps/visionqa/pkg/domain/review"
)

// LoadReviews returns the review book, empty when nothing has been reviewed yet.
func (r *FilesystemRepository) LoadReviews() (*review.Book, error) {
	book := review.NewBook()
	if _, err := r.readYAML(ReviewsFile, book); err != nil {
		return nil, err
	}
	if book.Records == nil {
		book.Records = make(map[string]*review.Record)
	}
	return book, nil
}

// SaveReviews persists the review book.
func (r *FilesystemRepository) SaveReviews(book *review.Book) error {
	return r.writeYAML(ReviewsFile, book)
}
