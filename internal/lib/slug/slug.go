// Package slug derives URL slugs, sanitizes upload filenames and generates
// gallery access keys.
package slug

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var (
	nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

	// Pattern is the shape every stored slug must have.
	Pattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Make lower-cases and trims s, collapses every run of characters outside
// [a-z0-9] into one hyphen and strips hyphens at both ends.
// Example: "My Photo Gallery!!" -> "my-photo-gallery"
func Make(s string) string {
	base := strings.ToLower(strings.TrimSpace(s))
	base = nonSlug.ReplaceAllString(base, "-")
	return strings.Trim(base, "-")
}

func Valid(s string) bool {
	return Pattern.MatchString(s)
}

// Field keeps a slug in sync with its source text until an operator edits it.
type Field struct {
	Value string
	Dirty bool
}

// Sync regenerates the slug from source unless the field was edited by hand.
func (f *Field) Sync(source string) {
	if f.Dirty {
		return
	}
	f.Value = Make(source)
}

// Edit records a manual value and stops further syncing.
func (f *Field) Edit(value string) {
	f.Value = value
	f.Dirty = true
}

// FieldFor builds the slug of a new record: an explicit value wins, otherwise
// the slug follows the title.
func FieldFor(title, explicit string) Field {
	var f Field
	if strings.TrimSpace(explicit) != "" {
		f.Edit(strings.TrimSpace(explicit))
		return f
	}
	f.Sync(title)
	return f
}

const (
	accessKeyAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	DefaultAccessKeyLength = 12
	MinAccessKeyLength     = 6
	MaxAccessKeyLength     = 64
)

var AccessKeyPattern = regexp.MustCompile(`^[A-Za-z0-9]{6,64}$`)

// AccessKey draws length characters uniformly from the 62-symbol alphanumeric
// alphabet. A non-positive length means DefaultAccessKeyLength.
func AccessKey(length int) (string, error) {
	if length <= 0 {
		length = DefaultAccessKeyLength
	}
	if length > MaxAccessKeyLength {
		return "", fmt.Errorf("access key length %d exceeds %d", length, MaxAccessKeyLength)
	}

	max := big.NewInt(int64(len(accessKeyAlphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate access key: %w", err)
		}
		b[i] = accessKeyAlphabet[n.Int64()]
	}

	return string(b), nil
}
