package faq

import "strings"

// Bigram is an ordered pair of adjacent tokens.
type Bigram struct {
	First  string
	Second string
}

// dottedCapitalI applies the full Unicode lowercase of U+0130, "i" plus a
// combining dot above. strings.ToLower maps it to a bare "i".
var dottedCapitalI = strings.NewReplacer("\u0130", "i\u0307")

// Normalize lowercases text and keeps only runs of ASCII letters, digits and
// apostrophes, joined by single spaces.
func Normalize(text string) string {
	lowered := strings.ToLower(dottedCapitalI.Replace(text))
	var builder strings.Builder
	builder.Grow(len(lowered))
	inWord := false
	for i := 0; i < len(lowered); i++ {
		c := lowered[i]
		if isWordByte(c) {
			if !inWord && builder.Len() > 0 {
				builder.WriteByte(' ')
			}
			builder.WriteByte(c)
			inWord = true
			continue
		}
		inWord = false
	}
	return builder.String()
}

// Tokenize returns the words of the normalized text.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return []string{}
	}
	return strings.Split(normalized, " ")
}

// Bigrams pairs consecutive tokens.
func Bigrams(tokens []string) []Bigram {
	if len(tokens) < 2 {
		return []Bigram{}
	}
	out := make([]Bigram, 0, len(tokens)-1)
	for i := 1; i < len(tokens); i++ {
		out = append(out, Bigram{First: tokens[i-1], Second: tokens[i]})
	}
	return out
}

// isWordByte works on bytes: every byte of a multi-byte rune is >= 0x80 and
// therefore never part of a word.
func isWordByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '\'':
		return true
	}
	return false
}
