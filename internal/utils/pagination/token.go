package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

// EncodeOffsetToken creates an opaque base64 token for offset pagination.
// Clients treat the token as a cursor; the encoding is an implementation detail.
func EncodeOffsetToken(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// DecodeOffsetToken parses a token back into an offset.
func DecodeOffsetToken(token string) (int, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	offset, err := strconv.Atoi(string(decodedBytes))
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("invalid pagination token format (offset parse)")
	}
	return offset, nil
}

// NextToken returns the token for the page after the one just served, or nil
// when the page came back short and there is nothing further to fetch.
func NextToken(offset, limit, returned int) *string {
	if limit <= 0 || returned < limit {
		return nil
	}
	token := EncodeOffsetToken(offset + returned)
	return &token
}
