package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadStatusValid(t *testing.T) {
	for _, s := range []ReadStatus{StatusNone, StatusRead, StatusUnread, StatusWantToRead} {
		assert.True(t, s.Valid(), "status %d should be valid", s)
	}

	assert.False(t, ReadStatus(-1).Valid())
	assert.False(t, ReadStatus(4).Valid())
}

func TestReadStatusString(t *testing.T) {
	assert.Equal(t, "Not in Library", StatusNone.String())
	assert.Equal(t, "Read", StatusRead.String())
	assert.Equal(t, "Not Read", StatusUnread.String())
	assert.Equal(t, "Want to Read", StatusWantToRead.String())
	assert.Equal(t, "Unknown", ReadStatus(9).String())
}

func TestAuthorFullName(t *testing.T) {
	assert.Equal(t, "Frank Herbert", Author{Name: "Frank", Surname: "Herbert"}.FullName())
	assert.Equal(t, "Plato", Author{Name: "Plato"}.FullName())
}

func TestRatingStars(t *testing.T) {
	assert.Equal(t, "Not Rated", LibraryBook{Rating: 0}.RatingStars())
	assert.Equal(t, "★★★☆☆", LibraryBook{Rating: 3}.RatingStars())
	assert.Equal(t, "★★★★★", LibraryBook{Rating: 5}.RatingStars())
}
