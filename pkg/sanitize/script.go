package sanitize

import "unicode"

// Japanese script code blocks accepted by the label filter.
//
// This is a script-membership heuristic, not a language detector: it asks
// "does the label contain at least one character from a Japanese code block",
// nothing more. Transliterated loanwords written in Latin script and
// mixed-script proper nouns are intentionally misclassified - the exemption
// list on proper-noun kinds is the escape hatch for those.
var japaneseRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3040, Hi: 0x309F, Stride: 1}, // Hiragana
		{Lo: 0x30A0, Hi: 0x30FF, Stride: 1}, // Katakana
		{Lo: 0x31F0, Hi: 0x31FF, Stride: 1}, // Katakana phonetic extensions
		{Lo: 0x4E00, Hi: 0x9FFF, Stride: 1}, // CJK unified ideographs
		{Lo: 0xFF66, Hi: 0xFF9D, Stride: 1}, // Halfwidth katakana
	},
}

// containsJapanese reports whether s contains at least one character from a
// Japanese code block.
func containsJapanese(s string) bool {
	for _, r := range s {
		if unicode.Is(japaneseRanges, r) {
			return true
		}
	}
	return false
}

// allASCII reports whether s consists entirely of ASCII characters.
// The empty string is all-ASCII.
func allASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// labelAllowed applies the language-policy filter to a node label.
// Exempt kinds pass unconditionally. Otherwise a label passes if it contains
// at least one Japanese-script character; it is rejected only when composed
// entirely of ASCII (an untranslated generic term). Mixed or non-ASCII
// non-Japanese labels pass.
func labelAllowed(label string, exempt bool) bool {
	if exempt {
		return true
	}
	if containsJapanese(label) {
		return true
	}
	return !allASCII(label)
}
