package types

import (
	"strings"

	"github.com/google/uuid"
)

// TokenLength is the length of auth and confirmation tokens.
const TokenLength = 32

// NewToken returns a fresh 32-character lowercase hex token.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
