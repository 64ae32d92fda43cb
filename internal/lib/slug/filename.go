package slug

import (
	"regexp"
	"strings"
)

const MaxFilenameLength = 200

var (
	badFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	multiUnderscore  = regexp.MustCompile(`_+`)
)

// SanitizeFilename maps an uploaded file name onto [A-Za-z0-9._-], at most
// 200 characters, keeping the extension when the name has to be cut.
// Example: "My Photo (1).JPG" -> "My_Photo_1_.JPG"
func SanitizeFilename(name string) string {
	cleaned := badFilenameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	cleaned = multiUnderscore.ReplaceAllString(cleaned, "_")
	cleaned = strings.Trim(cleaned, "_")
	if cleaned == "" {
		return "file"
	}
	if len(cleaned) <= MaxFilenameLength {
		return cleaned
	}

	i := strings.LastIndex(cleaned, ".")
	if i < 0 {
		return cleaned[:MaxFilenameLength]
	}

	base, ext := cleaned[:i], cleaned[i+1:]
	maxBase := MaxFilenameLength - len(ext) - 1
	if maxBase < 1 {
		maxBase = 1
	}
	if len(base) > maxBase {
		base = base[:maxBase]
	}

	return base + "." + ext
}
