package ir

import (
	"strings"
	"unicode"
)

// roleSuffixes maps field-name suffixes to ARIA-style roles, checked in
// order. Longer suffixes come before shorter ones that they contain.
var roleSuffixes = []struct {
	suffix string
	role   string
}{
	{"Input", "textbox"},
	{"Button", "button"},
	{"Select", "combobox"},
	{"Checkbox", "checkbox"},
	{"Link", "link"},
	{"Radio", "radio"},
}

// InferRole derives a semantic role from a target name. Names that match no
// known suffix fall back to the generic element role.
func InferRole(name string) string {
	for _, rs := range roleSuffixes {
		if strings.HasSuffix(name, rs.suffix) {
			return rs.role
		}
	}
	return "element"
}

// BusinessName renders a camelCase identifier as title-cased words, e.g.
// emailInput becomes "Email Input".
func BusinessName(name string) string {
	words := splitCamel(name)
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func splitCamel(name string) []string {
	var words []string
	var current []rune
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) && len(current) > 0 && !unicode.IsUpper(current[len(current)-1]) {
			words = append(words, string(current))
			current = current[:0]
		}
		current = append(current, r)
	}
	if len(current) > 0 {
		words = append(words, string(current))
	}
	return words
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	runes := []rune(w)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
