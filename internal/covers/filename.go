package covers

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	// Characters invalid in filenames on most filesystems or awkward in URLs
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*#%&{}\[\]'` + "`" + `]`)
	// Runs of whitespace become a single dash
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

const maxBaseLength = 100

// sanitizeBase strips the extension and anything unsafe from an uploaded
// file name, keeping it recognisable.
func sanitizeBase(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	base = invalidFilenameChars.ReplaceAllString(base, "")
	base = whitespaceRuns.ReplaceAllString(strings.TrimSpace(base), "-")
	base = strings.Trim(base, ".-")

	if len(base) > maxBaseLength {
		base = strings.Trim(base[:maxBaseLength], ".-")
	}
	if base == "" {
		base = "cover"
	}
	return base
}

// storedName prefixes the sanitized name with the upload time in
// milliseconds so two uploads of the same file never collide.
func storedName(original string, at time.Time, ext string) string {
	return fmt.Sprintf("%d-%s%s", at.UnixMilli(), sanitizeBase(original), ext)
}
