package domain

import (
	"regexp"
	"strings"
)

type Symbol string

var symbolRe = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// NormalizeSymbol uppercases and trims a raw ticker string.
// No validation of real-world existence is performed; unknown
// symbols simply fail to resolve downstream.
func NormalizeSymbol(s string) Symbol {
	return Symbol(strings.ToUpper(strings.TrimSpace(s)))
}

func ValidSymbol(s Symbol) bool {
	return symbolRe.MatchString(string(s))
}
