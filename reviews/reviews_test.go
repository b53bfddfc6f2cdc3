package reviews

import (
	"testing"

	"verso/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateReview(t *testing.T) {
	tests := []struct {
		name   string
		review models.ProductReview
		ok     bool
	}{
		{"valid", models.ProductReview{Rating: 4, Comment: "good read"}, true},
		{"min rating", models.ProductReview{Rating: 1, Comment: "meh"}, true},
		{"max rating", models.ProductReview{Rating: 5, Comment: "great"}, true},
		{"rating zero", models.ProductReview{Rating: 0, Comment: "hm"}, false},
		{"rating too high", models.ProductReview{Rating: 6, Comment: "hm"}, false},
		{"empty comment", models.ProductReview{Rating: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateReview(tt.review)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errInvalidReview)
			}
		})
	}
}
