package utils

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"+998 90 123 45 67", "+998901234567", false},
		{"998901234567", "+998901234567", false},
		{"90-123-45-67", "+998901234567", false},
		{"(90) 1234567", "+998901234567", false},
		{"+7 901 234 56 78", "", true},
		{"12345", "", true},
		{"", "", true},
		{"998٠١٢123", "", true},
		{"+998 ٩٠ ١٢٣ ٤٥ ٦٧", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizePhone(tt.raw)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidPhone, tt.raw)
			continue
		}
		assert.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "+998 90 123 45 67", FormatPhone("901234567"))
	assert.Equal(t, "not a phone", FormatPhone("not a phone"))
}

func TestFormatPhoneKeepsNonASCIIDigitsIntact(t *testing.T) {
	for _, raw := range []string{"998٠١٢123", "٩٠١٢٣٤٥٦٧"} {
		got := FormatPhone(raw)
		assert.Equal(t, raw, got)
		assert.True(t, utf8.ValidString(got), got)
	}
}
