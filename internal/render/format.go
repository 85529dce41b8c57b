package render

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.MustParse("en-IN"))

// ParseAmount reads the leading integer of a typed amount after dropping
// thousands separators. Anything that does not start with a number is 0.
func ParseAmount(s string) int64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatAmount groups n the way the studio's customers read numbers.
func FormatAmount(n int64) string {
	return amountPrinter.Sprintf("%d", n)
}

// Balance is total minus advance, grouped. Negative balances are printed as is.
func Balance(total, advance string) string {
	return FormatAmount(ParseAmount(total) - ParseAmount(advance))
}

// FormatDate turns YYYY-MM-DD into DD/MM/YYYY. Values that do not have three
// dash-separated parts are returned unchanged.
func FormatDate(s string) string {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return s
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

// Today formats now as DD/MM/YYYY in loc. A nil loc keeps now's own zone.
func Today(now time.Time, loc *time.Location) string {
	if loc != nil {
		now = now.In(loc)
	}
	return now.Format("02/01/2006")
}
