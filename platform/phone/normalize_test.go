package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"uk national format", "020 7946 0958", "+442079460958"},
		{"uk mobile", "07700 900123", "+447700900123"},
		{"already e164", "+447700900123", "+447700900123"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"garbage passes through", "not a number", "not a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeE164(tt.input); got != tt.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
