package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: " \t\n ", want: ""},
		{name: "lowercases", input: "Electricity BILL", want: "electricity bill"},
		{name: "strips punctuation", input: "Paid: electricity-bill (March)!", want: "paid electricity bill march"},
		{name: "collapses whitespace", input: "  a   b\t\tc  ", want: "a b c"},
		{name: "keeps digits", input: "Invoice #4521/2024", want: "invoice 4521 2024"},
		{name: "keeps non-ascii letters", input: "Café Crème", want: "café crème"},
		{name: "punctuation only", input: "!!!---???", want: ""},
		{name: "apostrophe splits word", input: "Principal's desk", want: "principal s desk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Paid electricity bill for March",
		"  ATTENDANCE -- register, sheet ",
		"Ünïcödé & symbols © 2024",
		"tabs\tand\nnewlines",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"register", "attendance", "sheet"}, Tokenize("Register, attendance-sheet"))
	assert.Empty(t, Tokenize("  ...  "))
}
