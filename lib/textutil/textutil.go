package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeSpace(text string) string {
	return strings.Trim(whitespaceRegex.ReplaceAllString(text, " "), " \n\t")
}

// NormalizeKey folds a payload key down to the form used for tolerant
// matching, scrapers are not consistent about casing or separators.
func NormalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.Trim(key, " \n\t")
	key = whitespaceRegex.ReplaceAllString(key, "")
	return strings.ReplaceAll(key, "_", "")
}

// CoerceInt converts whatever a scraper put in a numeric field into an
// int. Strings lose every rune that is not a digit or a minus sign
// before parsing, which tolerates currency formatting, thousands
// separators and trailing units ("688,100 원" -> 688100, "19건" -> 19).
// Anything unparseable coerces to 0, absence and zero are
// distinguished by the caller, not here.
func CoerceInt(value any) int {
	switch v := value.(type) {
	case nil:
		return 0
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case bool:
		return 0
	case string:
		var digits strings.Builder
		for _, r := range v {
			if r >= '0' && r <= '9' || r == '-' {
				digits.WriteRune(r)
			}
		}
		n, err := strconv.Atoi(digits.String())
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
