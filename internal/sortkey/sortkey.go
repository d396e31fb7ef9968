// Package sortkey computes the fractional sort keys that order list items.
//
// Keys are lowercase base36-like strings compared lexicographically. Any two
// neighboring keys can be subdivided indefinitely, so inserting an item never
// renumbers the rest of the list.
package sortkey

import (
	"errors"
	"strings"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func digit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'z':
		return 10 + int(c-'a'), true
	default:
		return 0, false
	}
}

func char(d int) byte {
	if d < 0 {
		d = 0
	}
	if d > 35 {
		d = 35
	}
	return alphabet[d]
}

// Between returns a key strictly between a and b.
// a may be empty (no lower bound) and b may be empty (no upper bound).
//
// The algorithm is a fractional-indexing midpoint over the base36 alphabet.
func Between(a, b string) (string, error) {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a != "" && b != "" && !(a < b) {
		return "", errors.New("sortkey: Between requires a < b")
	}

	lower, upper := a, b
	betweenOK := func(k string) bool {
		if strings.TrimSpace(k) == "" {
			return false
		}
		if lower != "" && !(lower < k) {
			return false
		}
		if upper != "" && !(k < upper) {
			return false
		}
		return true
	}

	const min = 0
	const max = 35

	prefix := make([]byte, 0, 8)
	for i := 0; i < 256; i++ {
		da := min
		db := max
		if i < len(a) {
			if v, ok := digit(a[i]); ok {
				da = v
			} else {
				return "", errors.New("sortkey: invalid character in lower bound")
			}
		}
		if i < len(b) {
			if v, ok := digit(b[i]); ok {
				db = v
			} else {
				return "", errors.New("sortkey: invalid character in upper bound")
			}
		}

		if da == db {
			prefix = append(prefix, char(da))
			continue
		}

		if db-da > 1 {
			mid := da + (db-da)/2
			prefix = append(prefix, char(mid))
			k := string(prefix)
			if !betweenOK(k) {
				// Happens when the upper bound is a prefix extension of the lower
				// (e.g. "y" < "y0"): no lexicographic string fits strictly between.
				return "", errors.New("sortkey: no space between keys")
			}
			return k, nil
		}

		// Adjacent digits: take the lower digit and keep subdividing against
		// the lower bound only; b differs upward at this position, so any
		// extension of the prefix stays below it. Returning here with a
		// minimal-digit terminator would leave a key with nothing
		// representable below it, killing future head insertions.
		prefix = append(prefix, char(da))
		b = ""
	}
	return "", errors.New("sortkey: unable to compute key between bounds")
}

func After(a string) (string, error)  { return Between(a, "") }
func Before(b string) (string, error) { return Between("", b) }
func Initial() (string, error)        { return Between("", "") }

// BetweenUnique returns a key between lower and upper that is not already
// present in existing. Existing keys should be normalized (lowercase,
// trimmed); the generated key is normalized before the membership check.
//
// Lists that predate unique keys may hold duplicates; this guarantees newly
// assigned keys never add to them without rewriting the rest of the list.
func BetweenUnique(existing map[string]bool, lower, upper string) (string, error) {
	if existing == nil {
		existing = map[string]bool{}
	}
	lower = strings.ToLower(strings.TrimSpace(lower))
	upper = strings.ToLower(strings.TrimSpace(upper))

	// Tighten the lower bound on each collision. Between guarantees strictly
	// between bounds when both are non-empty, so each round yields a new value.
	curLower := lower
	for i := 0; i < 256; i++ {
		k, err := Between(curLower, upper)
		if err != nil {
			return "", err
		}
		kn := strings.ToLower(strings.TrimSpace(k))
		if kn == "" {
			return "", errors.New("sortkey: generated empty key")
		}
		if !existing[kn] {
			return kn, nil
		}
		curLower = kn
	}
	return "", errors.New("sortkey: unable to find unique key")
}
