package sanitize

import "testing"

func TestContainsJapanese(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"hiragana", "ひらがな", true},
		{"katakana", "カタカナ", true},
		{"kanji", "漢字", true},
		{"halfwidth katakana", "ｶﾀｶﾅ", true},
		{"mixed with latin", "Web技術", true},
		{"ascii only", "internet", false},
		{"empty", "", false},
		{"accented latin", "café", false},
		{"korean", "한국어", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := containsJapanese(tt.input); got != tt.want {
				t.Errorf("containsJapanese(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAllASCII(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"plain", true},
		{"", true},
		{"with space 123", true},
		{"café", false},
		{"日本語", false},
	}
	for _, tt := range tests {
		if got := allASCII(tt.input); got != tt.want {
			t.Errorf("allASCII(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLabelAllowed(t *testing.T) {
	tests := []struct {
		name   string
		label  string
		exempt bool
		want   bool
	}{
		{"japanese label", "概念", false, true},
		{"ascii rejected", "Example", false, false},
		{"empty rejected", "", false, false},
		{"ascii exempt kind", "Nintendo", true, true},
		{"mixed script passes", "Web開発", false, true},
		{"non-ascii non-japanese passes", "café", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := labelAllowed(tt.label, tt.exempt); got != tt.want {
				t.Errorf("labelAllowed(%q, %v) = %v, want %v", tt.label, tt.exempt, got, tt.want)
			}
		})
	}
}
