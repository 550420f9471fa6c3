package extract

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// subscriptionIDPattern matches a UUID-shaped substring: 32 hex digits in the
// canonical 8-4-4-4-12 grouping, any case. Version and variant bits are not
// checked; any hex grouping in that shape qualifies.
var subscriptionIDPattern = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// SubscriptionID extracts the Azure subscription identifier from a filename.
// It returns the first UUID-shaped substring, canonicalized to lowercase, and
// false when the filename contains no such substring.
func SubscriptionID(filename string) (string, bool) {
	match := subscriptionIDPattern.FindString(filename)
	if match == "" {
		return "", false
	}

	id, err := uuid.Parse(strings.ToLower(match))
	if err != nil {
		return "", false
	}

	return id.String(), true
}
