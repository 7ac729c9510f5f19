package catalog

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxNameWords = 6
	maxNameLen   = 60
	maxDescLen   = 160
)

var (
	priceRe   = regexp.MustCompile(`(?i)(₹|\$|\b(?:rs\.?|inr|mrp|price|cost))\s*[:=\-]?\s*(?:₹|rs\.?)?\s*(\d+(?:,\d+)*(?:\.\d+)?)(?:\s*/-)?`)
	hashtagRe = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	mentionRe = regexp.MustCompile(`@[\w.]+`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// extractPrice finds the first price in a caption and formats it with the currency symbol.
func extractPrice(caption, currency string) string {
	m := priceRe.FindStringSubmatch(caption)
	if m == nil {
		return ""
	}
	if m[1] == "$" {
		return "$" + m[2]
	}
	return currency + m[2]
}

// extractName takes the first non-empty caption line and cleans it into a short product name.
func extractName(caption string) string {
	for _, line := range strings.Split(caption, "\n") {
		line = hashtagRe.ReplaceAllString(line, " ")
		line = mentionRe.ReplaceAllString(line, " ")
		line = priceRe.ReplaceAllString(line, " ")
		line = stripEmoji(line)
		line = strings.Trim(spaceRe.ReplaceAllString(line, " "), " -|:,.!~*•")
		if line == "" {
			continue
		}

		var words []string
		for _, w := range strings.Fields(line) {
			if strings.IndexFunc(w, isWordRune) >= 0 {
				words = append(words, w)
			}
		}
		if len(words) == 0 {
			continue
		}
		if len(words) > maxNameWords {
			words = words[:maxNameWords]
		}
		name := strings.Join(words, " ")
		return strings.TrimRight(truncate(name, maxNameLen, ""), " -|:,")
	}
	return ""
}

// extractDescription drops hashtags and squeezes whitespace.
func extractDescription(caption string) string {
	desc := hashtagRe.ReplaceAllString(caption, "")
	desc = strings.TrimSpace(spaceRe.ReplaceAllString(desc, " "))
	return truncate(desc, maxDescLen, "…")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func stripEmoji(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\u200d' || r == '\ufe0f' || r == '\ufe0e':
			return -1
		case r >= 0x1F000 && r <= 0x1FAFF:
			return -1
		case r >= 0x2600 && r <= 0x27BF:
			return -1
		case unicode.Is(unicode.So, r) || unicode.Is(unicode.Sk, r):
			return -1
		}
		return r
	}, s)
}

func truncate(s string, limit int, ellipsis string) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := strings.TrimSpace(string(runes[:limit-utf8.RuneCountInString(ellipsis)]))
	return cut + ellipsis
}

// onlyHashtags reports whether nothing but tags and whitespace is left in text.
func onlyHashtags(text string) bool {
	return strings.TrimSpace(hashtagRe.ReplaceAllString(text, "")) == ""
}

// OrderLink builds a wa.me deep link pre-filled with an order message.
// It returns "" when phone has no digits.
func OrderLink(phone, name, price string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return ""
	}

	text := fmt.Sprintf("Hi! I'd like to order: %s", name)
	if price != "" {
		text = fmt.Sprintf("%s (%s)", text, price)
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, strings.ReplaceAll(url.QueryEscape(text), "+", "%20"))
}

// BusinessName falls back to a title-cased username.
func BusinessName(displayName, username string) string {
	if name := strings.TrimSpace(displayName); name != "" {
		return name
	}
	parts := strings.FieldsFunc(username, func(r rune) bool { return r == '.' || r == '_' })
	for i, p := range parts {
		r, size := utf8.DecodeRuneInString(p)
		parts[i] = string(unicode.ToUpper(r)) + p[size:]
	}
	if len(parts) == 0 {
		return username
	}
	return strings.Join(parts, " ")
}
