package domain

import (
	"errors"
	"testing"
)

func validModule() *Module {
	return &Module{
		ID:    21,
		Title: "Modül 21 - Adverbs of Frequency",
		Intro: "How often?\nI always drink tea.",
		Tip:   "Sıklık zarfları fiilden önce gelir.",
		Table: Table{
			Title: "📊 Frequency",
			Data:  []Row{NewRow("adverb", "always", "percent", "100%")},
		},
		SpeakingPractice: []PracticeItem{
			{
				Question: "How often do you drink tea?",
				Answer:   "I always drink tea.",
				MultipleChoice: &MultipleChoice{
					Prompt: "I ___ drink tea. (100%)",
					Options: []Option{
						{Letter: "A", Text: "always", Correct: true},
						{Letter: "B", Text: "never"},
						{Letter: "C", Text: "sometimes"},
					},
				},
			},
		},
	}
}

func codes(issues []ValidationIssue) map[IssueCode]int {
	out := make(map[IssueCode]int)
	for _, i := range issues {
		out[i.Code]++
	}
	return out
}

func TestValidateModule_Valid(t *testing.T) {
	t.Parallel()

	if issues := ValidateModule(validModule()); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestValidateModule_Nil(t *testing.T) {
	t.Parallel()

	issues := ValidateModule(nil)
	if len(issues) != 1 || issues[0].Code != IssueInvalidModuleID || issues[0].Severity != SeverityError {
		t.Fatalf("expected one invalid_module_id error, got %v", issues)
	}
}

func TestValidateModule_RequiredFields(t *testing.T) {
	t.Parallel()

	m := validModule()
	m.Title = "  "
	m.Intro = ""
	m.SpeakingPractice = nil

	got := codes(ValidateModule(m))
	for _, c := range []IssueCode{IssueEmptyTitle, IssueEmptyIntro, IssueNoSpeakingPractice} {
		if got[c] != 1 {
			t.Errorf("expected one %s issue, got %d", c, got[c])
		}
	}
}

func TestValidateModule_CorrectOptionCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		correct []bool
		want    int
	}{
		{"none correct", []bool{false, false, false}, 1},
		{"two correct", []bool{true, true, false}, 1},
		{"one correct", []bool{false, true, false}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := validModule()
			opts := m.SpeakingPractice[0].MultipleChoice.Options
			for i := range opts {
				opts[i].Correct = tt.correct[i]
			}
			if got := codes(ValidateModule(m))[IssueCorrectOptionCount]; got != tt.want {
				t.Errorf("correct_option_count issues = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidateModule_DuplicateLetters(t *testing.T) {
	t.Parallel()

	m := validModule()
	m.SpeakingPractice[0].MultipleChoice.Options[2].Letter = "A"

	issues := ValidateModule(m)
	if codes(issues)[IssueDuplicateOptionLetter] != 1 {
		t.Fatalf("expected duplicate letter issue, got %v", issues)
	}
	for _, i := range issues {
		if i.Code == IssueDuplicateOptionLetter {
			if i.Path != "speakingPractice[0].multipleChoice.options[2].letter" {
				t.Errorf("unexpected path %q", i.Path)
			}
			if i.Severity != SeverityError {
				t.Errorf("severity = %s, want ERROR", i.Severity)
			}
		}
	}
}

func TestValidateModule_Warnings(t *testing.T) {
	t.Parallel()

	m := validModule()
	m.Table.Data = append(m.Table.Data, Row{})
	m.SpeakingPractice = append(m.SpeakingPractice, PracticeItem{Question: "Where are you?", Answer: ""})
	// "ö" as o + combining diaeresis.
	m.Tip = "Bo\u0308yle"

	issues := ValidateModule(m)
	got := codes(issues)
	for _, c := range []IssueCode{IssueEmptyRow, IssueEmptyAnswer, IssueNonNFCText} {
		if got[c] != 1 {
			t.Errorf("expected one %s issue, got %d", c, got[c])
		}
	}
	if HasErrors(issues) {
		t.Errorf("warnings only, but HasErrors = true: %v", issues)
	}
}

func TestValidateModule_SpacingAndDuplicates(t *testing.T) {
	t.Parallel()

	m := validModule()
	m.SpeakingPractice = append(m.SpeakingPractice, PracticeItem{
		Question: "how often do you  drink tea?",
		Answer:   "I never drink tea. ",
	})

	issues := ValidateModule(m)
	got := codes(issues)
	if got[IssueDuplicateQuestion] != 1 {
		t.Errorf("expected one duplicate_question issue, got %d", got[IssueDuplicateQuestion])
	}
	if got[IssueIrregularSpacing] != 2 {
		t.Errorf("expected two irregular_spacing issues, got %d: %v", got[IssueIrregularSpacing], issues)
	}
	if HasErrors(issues) {
		t.Errorf("warnings only, but HasErrors = true: %v", issues)
	}
}

func TestValidateModule_DoesNotMutate(t *testing.T) {
	t.Parallel()

	m := validModule()
	m.SpeakingPractice[0].MultipleChoice.Options[1].Correct = true
	before := append([]Option(nil), m.SpeakingPractice[0].MultipleChoice.Options...)

	_ = ValidateModule(m)

	after := m.SpeakingPractice[0].MultipleChoice.Options
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("option %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestIssuesError(t *testing.T) {
	t.Parallel()

	issues := []ValidationIssue{
		{ModuleID: 3, Path: "title", Code: IssueEmptyTitle, Severity: SeverityError, Message: "title is empty"},
		{ModuleID: 3, Path: "tip", Code: IssueNonNFCText, Severity: SeverityWarning, Message: "text is not NFC-normalized"},
	}

	err := IssuesError(issues, false)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Errors) != 1 || ve.Errors[0].Field != "module[3].title" {
		t.Errorf("unexpected field errors: %+v", ve.Errors)
	}

	if err := IssuesError(issues, true); err == nil || len(err.(*ValidationError).Errors) != 2 {
		t.Errorf("strict mode should include warnings, got %v", err)
	}

	if err := IssuesError(issues[1:], false); err != nil {
		t.Errorf("warnings only, non-strict: expected nil, got %v", err)
	}
}
