package domain

import "testing"

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  hello  ", want: "hello"},
		{name: "lowercase", input: "Are You Happy?", want: "are you happy?"},
		{name: "compress multiple spaces", input: "I am   a student.", want: "i am a student."},
		{name: "turkish diacritics preserved", input: "Öğrenci", want: "öğrenci"},
		{name: "apostrophes preserved", input: "I'm", want: "i'm"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
		{name: "tabs and spaces", input: "\t hello \t", want: "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCollapseSpaces(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"He is  a doctor.", "He is a doctor."},
		{" How often?\nI always drink tea. ", "How often?\nI always drink tea."},
		{"Ben bir öğrenciyim.", "Ben bir öğrenciyim."},
	}
	for _, tt := range tests {
		if got := CollapseSpaces(tt.input); got != tt.want {
			t.Errorf("CollapseSpaces(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
