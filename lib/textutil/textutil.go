package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

var (
	currencyRegex = regexp.MustCompile(`[$|,]`)
	percentRegex  = regexp.MustCompile(`[%]`)
	unitRegex     = regexp.MustCompile(`[A-Z|\s,]`)
)

// StripCurrency removes dollar signs and thousands separators ("$45,000.12" -> "45000.12").
func StripCurrency(s string) string {
	return strings.TrimSpace(currencyRegex.ReplaceAllString(s, ""))
}

// StripPercent removes percent signs ("2.34%" -> "2.34").
func StripPercent(s string) string {
	return strings.TrimSpace(percentRegex.ReplaceAllString(s, ""))
}

// StripUnits removes trailing unit letters, whitespace and thousands separators
// ("19,000,000 BTC" -> "19000000").
func StripUnits(s string) string {
	return unitRegex.ReplaceAllString(s, "")
}
