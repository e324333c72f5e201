package store

import (
	"encoding/base64"
	"fmt"
)

// Pagination cursors encode the last-seen primary-key tail of the
// current page. They are opaque to callers and monotonic with respect
// to the store's key order, which guarantees completeness across
// pages but not semantic rank order.

// EncodeCursor renders a key tail as an opaque page token.
func EncodeCursor(keyTail string) string {
	if keyTail == "" {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(keyTail))
}

// DecodeCursor recovers the key tail from a page token. An empty
// token means "start of partition".
func DecodeCursor(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("malformed page token: %w", err)
	}
	return string(raw), nil
}
