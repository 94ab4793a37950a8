// Package kochel parses Köchel catalogue numbers so works can be sorted the
// way the printed catalogue orders them: numerically, with letter suffixes
// ("K. 525b") after the bare number and among themselves alphabetically.
package kochel

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Number is a parsed catalogue designation, e.g. "K. 525b" → {525, "b"}.
type Number struct {
	Value  int
	Suffix string
}

// Parse accepts the common spellings "K. 525b", "K 525b", "KV 525b" and
// "525b". The suffix, when present, is one or more letters immediately
// following the digits.
func Parse(raw string) (Number, error) {
	s := strings.TrimSpace(raw)
	upper := strings.ToUpper(s)
	switch {
	case strings.HasPrefix(upper, "KV"):
		s = s[2:]
	case strings.HasPrefix(upper, "K."):
		s = s[2:]
	case strings.HasPrefix(upper, "K"):
		s = s[1:]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}, fmt.Errorf("empty catalogue number %q", raw)
	}

	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return Number{}, fmt.Errorf("catalogue number %q has no numeric part", raw)
	}

	value, err := strconv.Atoi(s[:digits])
	if err != nil {
		return Number{}, fmt.Errorf("catalogue number %q: %w", raw, err)
	}

	suffix := strings.ToLower(strings.TrimSpace(s[digits:]))
	for _, r := range suffix {
		if r < 'a' || r > 'z' {
			return Number{}, fmt.Errorf("catalogue number %q has invalid suffix %q", raw, suffix)
		}
	}

	return Number{Value: value, Suffix: suffix}, nil
}

// Compare orders by numeric value, then suffix ("K. 525" < "K. 525a" < "K. 525b").
func Compare(a, b Number) int {
	if a.Value != b.Value {
		if a.Value < b.Value {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Suffix, b.Suffix)
}

func (n Number) String() string {
	return fmt.Sprintf("K. %d%s", n.Value, n.Suffix)
}

// SortRaw sorts raw designations in catalogue order. Unparseable entries sink
// to the end, keeping their relative input order.
func SortRaw(raws []string) {
	type parsed struct {
		n  Number
		ok bool
	}
	cache := make(map[string]parsed, len(raws))
	for _, r := range raws {
		n, err := Parse(r)
		cache[r] = parsed{n: n, ok: err == nil}
	}
	sort.SliceStable(raws, func(i, j int) bool {
		pi, pj := cache[raws[i]], cache[raws[j]]
		if pi.ok != pj.ok {
			return pi.ok
		}
		if !pi.ok {
			return false
		}
		return Compare(pi.n, pj.n) < 0
	})
}
