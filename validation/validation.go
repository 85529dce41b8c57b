package validation

import (
	"regexp"
	"sort"
	"strings"
)

// Violations maps a form field id to a violation code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Fields returns the violated field ids in stable order.
func (v Violations) Fields() []string {
	out := make([]string, 0, len(v))
	for k := range v {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var (
	isoDate      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	leadingDigit = regexp.MustCompile(`^\s*[+-]?\d`)
)

// ISODate accepts an empty value or YYYY-MM-DD.
func ISODate(field, value string, v Violations) {
	if value == "" {
		return
	}
	if !isoDate.MatchString(value) {
		v[field] = "invalid_date"
	}
}

// Amount accepts an empty value or anything that begins with a number once
// thousands separators are ignored.
func Amount(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		return
	}
	if !leadingDigit.MatchString(strings.ReplaceAll(value, ",", "")) {
		v[field] = "not_a_number"
	}
}
