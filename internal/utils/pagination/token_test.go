package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeOffsetToken(t *testing.T) {
	for _, offset := range []int{0, 1, 20, 500} {
		token := EncodeOffsetToken(offset)
		assert.NotEmpty(t, token, "Token should not be empty")

		decoded, err := DecodeOffsetToken(token)
		assert.NoError(t, err, "Decoding should not return an error")
		assert.Equal(t, offset, decoded, "Offset should match after decode")
	}
}

func TestDecodeOffsetTokenError(t *testing.T) {
	// Invalid base64
	_, err := DecodeOffsetToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Valid base64, not a number
	_, err = DecodeOffsetToken("bm90YW51bWJlcg==") // "notanumber"
	assert.Error(t, err, "Should return an error for a non-numeric payload")
	assert.Contains(t, err.Error(), "offset parse", "Error should mention offset parsing")

	// Negative offsets are never issued
	_, err = DecodeOffsetToken(EncodeOffsetToken(-1))
	assert.Error(t, err, "Should reject a negative offset")
}

func TestNextToken(t *testing.T) {
	// Full page: there may be more
	next := NextToken(0, 20, 20)
	assert.NotNil(t, next, "Full page should yield a next token")
	offset, err := DecodeOffsetToken(*next)
	assert.NoError(t, err)
	assert.Equal(t, 20, offset, "Next token should point past the served page")

	// Short page: done
	assert.Nil(t, NextToken(20, 20, 7), "Short page should not yield a next token")
	assert.Nil(t, NextToken(0, 20, 0), "Empty page should not yield a next token")
	assert.Nil(t, NextToken(0, 0, 0), "Zero limit should not yield a next token")
}
