package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL derives the user's avatar URL from their email. The hash
// input is normalized per the gravatar contract (trimmed, lowercased),
// so the same email always maps to the same URL.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://gravatar.com/avatar/%x?s=200&r=pg&d=mm", hash)
}
