package instagram

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var ErrInvalidUsername = errors.New("invalid instagram username")

var (
	usernameRe = regexp.MustCompile(`^[a-z0-9._]{1,30}$`)
	profileURL = regexp.MustCompile(`(?i)(?:^|[^a-z0-9@./_-])(?:https?://)?(?:www\.|m\.)?instagram\.com/@?([a-z0-9._]+)`)
	handleRe   = regexp.MustCompile(`(?:^|[\s(,;:])@([A-Za-z0-9._]{1,30})`)
)

// paths under instagram.com that are never profiles
var reserved = map[string]bool{
	"p":        true,
	"reel":     true,
	"reels":    true,
	"explore":  true,
	"stories":  true,
	"accounts": true,
	"tv":       true,
	"direct":   true,
}

// ValidateUsername normalizes "@name", "name" or a profile URL into a lower-case username.
func ValidateUsername(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrInvalidUsername
	}

	if strings.Contains(strings.ToLower(s), "instagram.com") {
		if !strings.Contains(s, "://") {
			s = "https://" + s
		}
		u, err := url.Parse(s)
		if err != nil {
			return "", ErrInvalidUsername
		}
		host := strings.ToLower(u.Hostname())
		if host != "instagram.com" && !strings.HasSuffix(host, ".instagram.com") {
			return "", ErrInvalidUsername
		}
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		s = segments[0]
	}

	s = strings.ToLower(strings.TrimPrefix(s, "@"))
	s = strings.TrimRight(s, ".")
	if reserved[s] || !usernameRe.MatchString(s) {
		return "", ErrInvalidUsername
	}
	return s, nil
}

// FindUsername looks for a profile link or an @handle inside free text.
func FindUsername(text string) (string, bool) {
	for _, m := range profileURL.FindAllStringSubmatch(text, -1) {
		if name, err := ValidateUsername(m[1]); err == nil {
			return name, true
		}
	}
	for _, m := range handleRe.FindAllStringSubmatch(text, -1) {
		if name, err := ValidateUsername(m[1]); err == nil {
			return name, true
		}
	}
	return "", false
}
