package resolve

import (
	"go/token"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CamelCase converts a proto identifier into an exported Go identifier.
// Words are delimited by underscores, dashes, lower-to-upper transitions and
// digit runs; every word starts with an upper case letter and keeps the rest
// of its letters.
func CamelCase(name string) string {
	words := splitWords(name)
	if len(words) == 0 {
		return "X"
	}
	caser := cases.Title(language.Und, cases.NoLower)
	for i := range words {
		words[i] = caser.String(words[i])
	}
	out := strings.Join(words, "")
	if r := []rune(out)[0]; !unicode.IsUpper(r) {
		out = "X" + out
	}
	return out
}

// FieldCamelCase is CamelCase with a trailing "id" word written as "ID".
func FieldCamelCase(name string) string {
	words := splitWords(name)
	if n := len(words); n > 1 && strings.EqualFold(words[n-1], "id") {
		return CamelCase(strings.Join(words[:n-1], "_")) + "ID"
	}
	if len(words) == 1 && words[0] == "id" {
		return "ID"
	}
	return CamelCase(name)
}

func splitWords(name string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '.':
			flush()
			continue
		case i > 0 && unicode.IsUpper(r) && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])):
			flush()
		case i > 0 && unicode.IsLetter(r) && unicode.IsDigit(runes[i-1]):
			flush()
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// reservedPackageNames are the packages every generated file imports.
var reservedPackageNames = map[string]bool{
	"codec": true,
	"wire":  true,
}

// packageSegment turns one proto package component into a valid, lower case
// Go package name.
func packageSegment(seg string) string {
	seg = strings.ToLower(seg)
	var sb strings.Builder
	for i, r := range seg {
		switch {
		case r == '_' || unicode.IsLetter(r):
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	out := sb.String()
	if token.IsKeyword(out) || reservedPackageNames[out] {
		out += "_"
	}
	return out
}
