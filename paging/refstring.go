package paging

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultReferenceString is the textbook reference string used when the user
// does not provide one.
const DefaultReferenceString = "7,0,1,2,0,3,0,4,2,3,0,3,2"

// DefaultReferences returns DefaultReferenceString as pages.
func DefaultReferences() []Page {
	refs, err := ParseReferenceString(DefaultReferenceString)
	if err != nil {
		panic(err)
	}

	return refs
}

// ParseReferenceString parses a comma separated list of page numbers, such as
// "7, 0, 1". Spaces around numbers are ignored. An empty string yields an
// empty reference string.
func ParseReferenceString(s string) ([]Page, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []Page{}, nil
	}

	fields := strings.Split(s, ",")
	refs := make([]Page, 0, len(fields))

	for i, field := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("%w: position %d: %q",
				ErrInvalidReference, i+1, field)
		}

		refs = append(refs, Page(n))
	}

	return refs, nil
}

// FormatReferences renders pages as a comma separated list.
func FormatReferences(refs []Page) string {
	parts := make([]string, len(refs))
	for i, p := range refs {
		parts[i] = strconv.Itoa(int(p))
	}

	return strings.Join(parts, ",")
}
