package suggest

import (
	"testing"

	"github.com/Veraticus/spicecat/internal/catalog"
	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	utilities := catalog.CategoryPattern{
		Name:     "Utilities",
		Weight:   1.2,
		Keywords: []string{"electricity bill", "water bill"},
	}
	stationery := catalog.CategoryPattern{
		Name:     "Stationery",
		Weight:   1.0,
		Keywords: []string{"attendance register", "pens", "stapler"},
	}

	tests := []struct {
		name    string
		text    string
		pattern catalog.CategoryPattern
		learned []string
		want    float64
	}{
		{
			name:    "phrase match scores three times weight",
			text:    "Paid electricity bill for March",
			pattern: utilities,
			want:    3.6,
		},
		{
			name:    "phrase match survives punctuation and case",
			text:    "ELECTRICITY-BILL, march",
			pattern: utilities,
			want:    3.6,
		},
		{
			name:    "multi-word keyword in any order scores twice weight",
			text:    "register attendance sheet",
			pattern: stationery,
			want:    2.0,
		},
		{
			name:    "multi-word keyword with partial sub-words",
			text:    "registers for attendances",
			pattern: stationery,
			want:    2.0,
		},
		{
			name:    "multi-word keyword missing a sub-word scores nothing",
			text:    "attendance sheet",
			pattern: stationery,
			want:    0,
		},
		{
			name:    "single-word keyword gets no fuzzy fallback",
			text:    "staple pins",
			pattern: stationery,
			want:    0,
		},
		{
			name:    "two cues earn the multi-cue bonus",
			text:    "electricity bill and water bill",
			pattern: utilities,
			want:    (3.6 + 3.6) * 1.2,
		},
		{
			name:    "repeated keyword counts once",
			text:    "pens pens pens",
			pattern: stationery,
			want:    3.0,
		},
		{
			name:    "learned term scores twice weight",
			text:    "monthly meter charge",
			pattern: utilities,
			learned: []string{"meter"},
			want:    2.4,
		},
		{
			name:    "learned term combines with keyword for the bonus",
			text:    "electricity bill meter",
			pattern: utilities,
			learned: []string{"meter"},
			want:    (3.6 + 2.4) * 1.2,
		},
		{
			name:    "learned term equal to a keyword is not double counted",
			text:    "new pens",
			pattern: stationery,
			learned: []string{"pens"},
			want:    3.0,
		},
		{
			name:    "empty text",
			text:    "",
			pattern: utilities,
			learned: []string{"meter"},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.text, tt.pattern, tt.learned), 1e-9)
		})
	}
}

func TestScore_MatchesExplainContributions(t *testing.T) {
	p := compile(catalog.CategoryPattern{
		Name:     "Stationery",
		Weight:   1.0,
		Keywords: []string{"attendance register", "pens"},
	})

	total, matches := score("pens for register attendance", []string{"pens", "for", "register", "attendance"}, p, nil)

	assert.InDelta(t, (3.0+2.0)*1.2, total, 1e-9)
	if assert.Len(t, matches, 2) {
		assert.Equal(t, "attendance register", matches[0].Term)
		assert.Equal(t, MatchWords, matches[0].Kind)
		assert.Equal(t, "pens", matches[1].Term)
		assert.Equal(t, MatchPhrase, matches[1].Kind)

		sum := 0.0
		for _, m := range matches {
			sum += m.Points
		}
		assert.InDelta(t, total, sum, 1e-9)
	}
}

func TestScore_Monotonic(t *testing.T) {
	pattern := catalog.CategoryPattern{
		Name:     "Food",
		Weight:   1.0,
		Keywords: []string{"lunch", "restaurant meal"},
	}
	texts := []string{
		"canteen lunch",
		"canteen coupons",
		"restaurant meal at canteen",
		"nothing relevant",
		"",
	}

	for _, text := range texts {
		before := Score(text, pattern, nil)
		after := Score(text, pattern, []string{"canteen"})
		assert.GreaterOrEqual(t, after, before, "text %q", text)
	}
}
