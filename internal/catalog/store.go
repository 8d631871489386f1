package catalog

import (
	"context"
	"strings"
	"unicode"
)

// Product is one catalog entry, keyed by the normalized RFID tag.
type Product struct {
	TagID    string `json:"tag_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
}

type Store interface {
	Ping(ctx context.Context) error
	ListSortedByTag(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, tag string) (Product, bool, error)
}

// NormalizeTag uppercases a raw scan and strips every whitespace rune.
// RFID readers disagree about hex casing and some firmwares pad with
// spaces. An empty result is not an error; it just never matches.
func NormalizeTag(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
