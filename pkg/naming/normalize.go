// Package naming converts asset catalog names into the identifiers source
// code uses to reference them.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// isDelimiter reports whether r separates words in an asset name
func isDelimiter(r rune) bool {
	return r == '_' || r == ' ' || r == '-' || r == '.'
}

// Normalize converts a raw asset name into its lowerCamelCase identifier.
//
//	"Home_Icon"      -> "homeIcon"
//	"My_Cool-Image"     -> "myCoolImage"
//	"My_Cool-Image.png" -> "myCoolImagePng"
//	"icon.dark"         -> "iconDark"
//	"2Background"       -> "_2Background"
//
// Names without any word characters are returned unchanged.
func Normalize(raw string) string {
	words := Words(raw)
	if len(words) == 0 {
		return raw
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(capitalize(w))
	}

	out := b.String()
	if first, _ := utf8.DecodeRuneInString(out); unicode.IsDigit(first) {
		return "_" + out
	}
	return out
}

// Words splits a name on delimiters, then splits every segment at uppercase
// letters: "myCool_Image" -> ["my", "Cool", "Image"].
func Words(raw string) []string {
	var words []string
	for _, segment := range strings.FieldsFunc(raw, isDelimiter) {
		words = append(words, splitUpper(segment)...)
	}
	return words
}

// splitUpper starts a new word at each uppercase rune that follows a
// non-empty word. "HTMLView" yields single letters until "View".
func splitUpper(segment string) []string {
	var parts []string
	var word strings.Builder
	for _, r := range segment {
		if unicode.IsUpper(r) && word.Len() > 0 {
			parts = append(parts, word.String())
			word.Reset()
		}
		word.WriteRune(r)
	}
	if word.Len() > 0 {
		parts = append(parts, word.String())
	}
	return parts
}

func capitalize(w string) string {
	first, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(first)) + strings.ToLower(w[size:])
}
