package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"stmtview/internal/domain"
)

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {bank}_statement_{YYYY-MM-DD}.{ext}. The bank prefix is
// dropped when it is the placeholder or sanitizes to nothing.
func BuildFilename(bank string, format domain.ExportFormat, now time.Time) string {
	date := now.Format("2006-01-02")
	prefix := ""
	if bank != domain.Placeholder {
		prefix = strings.ToLower(SanitizeFilename(bank))
	}
	if prefix == "" {
		return fmt.Sprintf("statement_%s.%s", date, format)
	}
	return fmt.Sprintf("%s_statement_%s.%s", prefix, date, format)
}

// ParseFormat maps a query value to an ExportFormat. Empty means CSV.
func ParseFormat(v string) (domain.ExportFormat, error) {
	switch domain.ExportFormat(strings.ToLower(strings.TrimSpace(v))) {
	case "", domain.ExportFormatCSV:
		return domain.ExportFormatCSV, nil
	case domain.ExportFormatXLSX:
		return domain.ExportFormatXLSX, nil
	default:
		return "", domain.ErrUnsupportedExport
	}
}

// Write renders s in the given format.
func Write(out io.Writer, format domain.ExportFormat, s *domain.NormalizedStatement) error {
	switch format {
	case domain.ExportFormatCSV:
		return WriteCSV(out, s)
	case domain.ExportFormatXLSX:
		return WriteXLSX(out, s)
	default:
		return domain.ErrUnsupportedExport
	}
}
