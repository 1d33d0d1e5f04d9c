package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantText   string
		wantTokens []string
	}{
		{
			name:       "latin lowercase and collapse",
			input:      "  Front   Brake Pad ",
			wantText:   "front brake pad",
			wantTokens: []string{"front", "brake", "pad"},
		},
		{
			name:       "persian digits fold to ascii",
			input:      "لنت جلو تیگو ۸",
			wantText:   "لنت جلو تیگو 8",
			wantTokens: []string{"لنت", "جلو", "تیگو", "8"},
		},
		{
			name:       "arabic indic digits fold to ascii",
			input:      "فلتر ٣٢١",
			wantText:   "فلتر 321",
			wantTokens: []string{"فلتر", "321"},
		},
		{
			name:       "punctuation becomes boundaries",
			input:      "12345-67890",
			wantText:   "12345 67890",
			wantTokens: []string{"12345", "67890"},
		},
		{
			name:       "zwnj splits compound words",
			input:      "لنت‌ترمز",
			wantText:   "لنت ترمز",
			wantTokens: []string{"لنت", "ترمز"},
		},
		{
			name:       "arabic letter variants fold to persian",
			input:      "روغن موتور عربي",
			wantText:   "روغن موتور عربی",
			wantTokens: []string{"روغن", "موتور", "عربی"},
		},
		{
			name:       "diacritics stripped",
			input:      "Café filtre",
			wantText:   "cafe filtre",
			wantTokens: []string{"cafe", "filtre"},
		},
		{
			name:     "empty input",
			input:    "",
			wantText: "",
		},
		{
			name:     "whitespace only",
			input:    "   \t  ",
			wantText: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantTokens, got.Tokens)
			assert.Equal(t, len(tt.wantTokens) == 0, got.Empty())
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Front Brake Pad - Tiggo 8",
		"لنت جلو تیگو ۸",
		"فیلتر روغن X33 ٢٠٢٣",
		"mixed لنت BRAKE ۱۲۳",
		"",
		"   ",
		"12345-67890",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once.Text)
		assert.Equal(t, once, twice, "normalize must be idempotent for %q", in)
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"T11-3501080", "t113501080"},
		{"t11 3501080", "t113501080"},
		{"۱۲۳۴۵-۶۷۸۹۰", "1234567890"},
		{"12345-67890", "1234567890"},
		{"", ""},
		{"--- ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCode(tt.input), "input %q", tt.input)
	}
}
