package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid simple", "root", false},
		{"valid japanese", "インターネット", false},
		{"valid with suffix", "node__1", false},
		{"empty", "", true},
		{"control character", "node\x00id", true},
		{"newline", "node\nid", true},
		{"too long", strings.Repeat("a", MaxIDLength+1), true},
		{"max length ok", strings.Repeat("a", MaxIDLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidNodeID {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidNodeID)
			}
		})
	}
}

func TestValidateDomainName(t *testing.T) {
	tests := []struct {
		name    string
		domain  string
		wantErr bool
	}{
		{"valid", "tech", false},
		{"valid hyphen", "food-culture", false},
		{"empty", "", true},
		{"path separator", "tech/extra", true},
		{"backslash", "tech\\extra", true},
		{"traversal", "..", true},
		{"whitespace", "te ch", true},
		{"control character", "tech\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDomainName(tt.domain)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDomainName(%q) error = %v, wantErr %v", tt.domain, err, tt.wantErr)
			}
		})
	}
}
