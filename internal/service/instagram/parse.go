package instagram

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const titleSuffix = " • Instagram photos and videos"

var (
	countsRe   = regexp.MustCompile(`(?i)([\d.,]+\s*[KMB]?)\s+Followers?,\s*([\d.,]+\s*[KMB]?)\s+Following,\s*([\d.,]+\s*[KMB]?)\s+Posts?`)
	fromNameRe = regexp.MustCompile(`from\s+(.+?)\s+\(@[^)]+\)`)
	handleTail = regexp.MustCompile(`\s*\(@[^)]*\)\s*$`)
)

// ParseCount turns "1,234", "1.2K", "3M" or "12.5k" into an integer. Invalid input yields 0.
func ParseCount(s string) int {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0
	}

	mult := 1.0
	switch s[len(s)-1] {
	case 'K':
		mult = 1e3
	case 'M':
		mult = 1e6
	case 'B':
		mult = 1e9
	}
	if mult > 1 {
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return int(math.Round(v * mult))
}

type metaCounts struct {
	Followers   int
	Following   int
	Posts       int
	DisplayName string
}

// parseMetaDescription reads the og:description Instagram serves to crawlers:
// "1,234 Followers, 56 Following, 78 Posts - See Instagram photos and videos from Name (@user)".
func parseMetaDescription(desc string) (metaCounts, bool) {
	var mc metaCounts
	m := countsRe.FindStringSubmatch(desc)
	if m == nil {
		return mc, false
	}
	mc.Followers = ParseCount(m[1])
	mc.Following = ParseCount(m[2])
	mc.Posts = ParseCount(m[3])
	if n := fromNameRe.FindStringSubmatch(desc); n != nil {
		mc.DisplayName = strings.TrimSpace(n[1])
	}
	return mc, true
}

// cleanTitle strips the decorations Instagram adds to profile page titles.
func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	if i := strings.Index(title, titleSuffix); i >= 0 {
		title = title[:i]
	}
	if i := strings.Index(title, " • "); i >= 0 {
		title = title[:i]
	}
	return strings.TrimSpace(handleTail.ReplaceAllString(title, ""))
}
