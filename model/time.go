package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Agencies disagree on how they write acquisition instants. The catalog stores
// naive UTC timestamps, so every extracted date is normalized to a zone-less
// ISO 8601 string first and parsed leniently afterwards.

// CatalogTimeLayout is the layout normalized dates are written in
const CatalogTimeLayout = "2006-01-02T15:04:05.999999999"

var catalogTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var slashDateTime = regexp.MustCompile(`^(\d{4})/(\d{2})/(\d{2}) (\d{2}:\d{2}:\d{2}(?:\.\d+)?)$`)

var zoneSuffixes = strings.NewReplacer("+00:00", "", "Z", "")

// NormalizeDate strips UTC zone suffixes and rewrites "YYYY/MM/DD HH:MM:SS"
// as "YYYY-MM-DDTHH:MM:SS"
func NormalizeDate(date string) string {
	date = zoneSuffixes.Replace(strings.TrimSpace(date))
	if m := slashDateTime.FindStringSubmatch(date); m != nil {
		return fmt.Sprintf("%s-%s-%sT%s", m[1], m[2], m[3], m[4])
	}
	return date
}

// ParseCatalogTime is a drop-in replacement for time.Parse, matching against every normalized date layout
func ParseCatalogTime(date string) (time.Time, error) {
	for _, layout := range catalogTimeLayouts {
		if output, err := time.Parse(layout, date); err == nil {
			return output, nil
		}
	}
	return time.Time{}, fmt.Errorf("Date could not be parsed by any expected time format: `%s`", date)
}

var identifierReplacer = strings.NewReplacer(" ", "_", ":", "_", ".", "_", "/", "-")

// NormalizeIdentifier makes a native scene id safe to embed in a catalog identifier
func NormalizeIdentifier(identifier string) string {
	return identifierReplacer.Replace(identifier)
}

// NormalizeName trims a platform or instrument name and collapses inner whitespace
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
