package models

import (
	"sort"
	"strings"
)

type CurrencyCode string

// NewCurrencyCode normalizes a caller-supplied code. Any non-empty code is
// accepted: the archive simply never matches codes it does not know, so an
// unrecognized code is filtered by omission, not rejected.
func NewCurrencyCode(s string) CurrencyCode {
	return CurrencyCode(strings.ToUpper(strings.TrimSpace(s)))
}

func (c CurrencyCode) String() string { return string(c) }

type CurrencySet map[CurrencyCode]struct{}

func NewCurrencySet(codes []string) CurrencySet {
	set := make(CurrencySet, len(codes))
	for _, code := range codes {
		ccy := NewCurrencyCode(code)
		if ccy == "" {
			continue
		}
		set[ccy] = struct{}{}
	}
	return set
}

func (s CurrencySet) Contains(c CurrencyCode) bool {
	_, ok := s[c]
	return ok
}

// Codes returns the set members sorted, so the set has a stable textual form.
func (s CurrencySet) Codes() []CurrencyCode {
	codes := make([]CurrencyCode, 0, len(s))
	for c := range s {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

func (s CurrencySet) String() string {
	codes := s.Codes()
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}
