package extraction

import (
	"regexp"
	"strings"
)

// UnknownValue stands in for an absent metadata header when deriving identifiers.
const UnknownValue = "Unknown"

var (
	subjectPattern = regexp.MustCompile(`(?im)^##\s*Subject\s*-\s*(.+)$`)
	chapterPattern = regexp.MustCompile(`(?im)^##\s*Chapter\s*-\s*(.+)$`)
	sectionPattern = regexp.MustCompile(`(?im)^##\s*Section\s*-\s*(.+)$`)
)

// Metadata is the taxonomy declared by "## Subject - X" style headers.
type Metadata struct {
	Subject string `json:"subject,omitempty"`
	Chapter string `json:"chapter,omitempty"`
	Section string `json:"section,omitempty"`
}

// ExtractMetadata reads the first Subject, Chapter and Section headers.
func ExtractMetadata(markdown string) Metadata {
	return Metadata{
		Subject: firstMatch(subjectPattern, markdown),
		Chapter: firstMatch(chapterPattern, markdown),
		Section: firstMatch(sectionPattern, markdown),
	}
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// OrUnknown replaces empty fields with UnknownValue.
func (m Metadata) OrUnknown() Metadata {
	return Metadata{
		Subject: orUnknown(m.Subject),
		Chapter: orUnknown(m.Chapter),
		Section: orUnknown(m.Section),
	}
}

func orUnknown(s string) string {
	if s == "" {
		return UnknownValue
	}
	return s
}
