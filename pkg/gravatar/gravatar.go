// Package gravatar builds avatar URLs from e-mail addresses.
package gravatar

import (
	"crypto/md5"
	"fmt"
	"strings"
)

const baseURL = "https://secure.gravatar.com/avatar"

// URL returns the gravatar image URL for an e-mail address.
// Gravatar hashes the trimmed, lower-cased address.
func URL(email string, size int) string {
	if size <= 0 {
		size = 50
	}
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("%s/%x?s=%d", baseURL, sum, size)
}
