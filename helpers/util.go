package helpers

import (
	"errors"
	"strings"
)

// GetSplitPart splits target on separate and returns the part at index
func GetSplitPart(target string, separate string, index int) (string, error) {
	parts := strings.Split(target, separate)
	if index >= len(parts) {
		return "", errors.New("index out of range")
	}
	return parts[index], nil
}

// StripCitation drops a trailing wiki citation marker such as "Funan[12]"
// and surrounding whitespace.
func StripCitation(text string) string {
	head, _ := GetSplitPart(text, "[", 0)
	return strings.TrimSpace(head)
}
