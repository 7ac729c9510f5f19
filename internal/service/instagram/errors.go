package instagram

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindNetwork     Kind = "network"
	KindNotFound    Kind = "not_found"
	KindRateLimited Kind = "rate_limited"
	KindBlocked     Kind = "blocked"
	KindParse       Kind = "parse"
	KindEmpty       Kind = "empty"
)

// Error is returned by every strategy and, aggregated, by Scraper.Profile.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Causes holds the per-strategy failures when this error is an aggregate.
	Causes []error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("instagram %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("instagram %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() []error {
	return e.Causes
}

// KindOf extracts the error kind, defaulting to network for foreign errors.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindNetwork
}

// kindRank orders kinds by how much they tell the user.
var kindRank = map[Kind]int{
	KindNotFound:    6,
	KindRateLimited: 5,
	KindBlocked:     4,
	KindNetwork:     3,
	KindParse:       2,
	KindEmpty:       1,
}

func aggregate(username string, causes []error) *Error {
	agg := &Error{Kind: KindEmpty, Causes: causes}
	parts := make([]string, 0, len(causes))
	for _, err := range causes {
		k := KindOf(err)
		if kindRank[k] > kindRank[agg.Kind] {
			agg.Kind = k
		}
		parts = append(parts, err.Error())
	}
	agg.Message = fmt.Sprintf("no strategy could read @%s: %s", username, strings.Join(parts, "; "))
	return agg
}
