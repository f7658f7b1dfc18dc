package domain

import "testing"

func TestValidateID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"valid 24-char hex", "aabbccddee112233aabbccdd", true},
		{"empty string", "", false},
		{"too short", "aabbcc", false},
		{"too long", "aabbccddee112233aabbccddd", false},
		{"exactly 23 chars", "aabbccddee112233aabbccd", false},
		{"exactly 25 chars", "aabbccddee112233aabbccdde", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateID(tt.id); got != tt.want {
				t.Errorf("ValidateID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
