// Package textutil provides text processing utilities for translation
// input and scoring.
package textutil

import (
	"regexp"
	"strings"
)

var tokenizeRe = regexp.MustCompile(`[\p{L}\p{N}]+'?|[^\s\p{L}\p{N}]`)

// Tokenize splits raw text into decoder tokens: word runs, elided
// prefixes like "qu'" as their own tokens, and each punctuation mark
// separately.
func Tokenize(text string) []string {
	return tokenizeRe.FindAllString(text, -1)
}

// TokenNgrams returns n-grams from a list of tokens, joined by space.
func TokenNgrams(tokens []string, minN, maxN int) []string {
	tLen := len(tokens)
	var res []string
	for n := minN; n <= maxN && n <= tLen; n++ {
		for i := 0; i <= tLen-n; i++ {
			res = append(res, strings.Join(tokens[i:i+n], " "))
		}
	}
	return res
}

var (
	newlineRe    = regexp.MustCompile(`[\n\r]`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// NormalizeWhitespaces replaces newlines and multiple whitespace with a
// single space.
func NormalizeWhitespaces(text string) string {
	text = newlineRe.ReplaceAllString(text, " ")
	return multiSpaceRe.ReplaceAllString(text, " ")
}

// Normalize lowercases text and normalizes whitespace.
func Normalize(text string) string {
	return NormalizeWhitespaces(strings.ToLower(text))
}
