package usecase

import (
	"regexp"
)

// contactFilter masks contact details in chat messages so trades cannot be
// taken off-platform before escrow settles.
type contactFilter struct {
	patterns []*regexp.Regexp
}

const maskedText = "[hidden]"

var defaultContactFilter = newContactFilter()

func newContactFilter() *contactFilter {
	return &contactFilter{
		patterns: []*regexp.Regexp{
			// Email addresses
			regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
			// Egyptian mobile numbers, with or without +20 and separators
			regexp.MustCompile(`(\+?2?0?1[0125])[\s\-.]?\d{4}[\s\-.]?\d{4}`),
			// Generic long digit runs that look like phone numbers
			regexp.MustCompile(`\+?\d[\d\s\-.]{8,}\d`),
			// Links
			regexp.MustCompile(`(?i)(https?://|www\.)\S+`),
			// Messenger handles spelled out next to a keyword
			regexp.MustCompile(`(?i)(whatsapp|telegram|discord|signal|viber|insta(gram)?|facebook|fb|messenger)[\s:.\-]*[@a-zA-Z0-9_.\-]*`),
			// Bare @handles
			regexp.MustCompile(`@[a-zA-Z0-9_.]{3,}`),
		},
	}
}

// Apply returns the masked content and whether anything was hidden.
func (f *contactFilter) Apply(content string) (string, bool) {
	filtered := content
	for _, pattern := range f.patterns {
		filtered = pattern.ReplaceAllString(filtered, maskedText)
	}
	return filtered, filtered != content
}

// FilterContactInfo masks emails, phone numbers, links, and messenger
// handles in a chat message.
func FilterContactInfo(content string) (string, bool) {
	return defaultContactFilter.Apply(content)
}
