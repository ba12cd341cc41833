package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Severity grades a validation issue.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

func (s Severity) String() string { return string(s) }

// IssueCode identifies the rule a validation issue violates.
type IssueCode string

const (
	IssueInvalidModuleID       IssueCode = "invalid_module_id"
	IssueEmptyTitle            IssueCode = "empty_title"
	IssueEmptyIntro            IssueCode = "empty_intro"
	IssueNoSpeakingPractice    IssueCode = "no_speaking_practice"
	IssueCorrectOptionCount    IssueCode = "correct_option_count"
	IssueDuplicateOptionLetter IssueCode = "duplicate_option_letter"

	IssueEmptyQuestion     IssueCode = "empty_question"
	IssueEmptyAnswer       IssueCode = "empty_answer"
	IssueEmptyOptionText   IssueCode = "empty_option_text"
	IssueEmptyOptionLetter IssueCode = "empty_option_letter"
	IssueTooFewOptions     IssueCode = "too_few_options"
	IssueEmptyRow          IssueCode = "empty_row"
	IssueNonNFCText        IssueCode = "non_nfc_text"
	IssueIrregularSpacing  IssueCode = "irregular_spacing"
	IssueDuplicateQuestion IssueCode = "duplicate_question"
)

// Severity returns the severity attached to the code.
func (c IssueCode) Severity() Severity {
	switch c {
	case IssueInvalidModuleID, IssueEmptyTitle, IssueEmptyIntro, IssueNoSpeakingPractice,
		IssueCorrectOptionCount, IssueDuplicateOptionLetter:
		return SeverityError
	}
	return SeverityWarning
}

// ValidationIssue is one content problem found in a module.
type ValidationIssue struct {
	ModuleID int
	Path     string
	Code     IssueCode
	Severity Severity
	Message  string
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("module %d: %s: %s [%s]", i.ModuleID, i.Path, i.Message, i.Code)
}

// ValidateModule checks the content invariants of a module and returns every
// issue found, in document order. It never modifies the module. A nil module
// yields a single invalid_module_id issue.
func ValidateModule(m *Module) []ValidationIssue {
	if m == nil {
		v := &validator{}
		v.add("id", IssueInvalidModuleID, "module is nil")
		return v.issues
	}
	v := &validator{moduleID: m.ID}

	if m.ID < 1 {
		v.add("id", IssueInvalidModuleID, fmt.Sprintf("module id must be >= 1 (got %d)", m.ID))
	}
	if strings.TrimSpace(m.Title) == "" {
		v.add("title", IssueEmptyTitle, "title is empty")
	}
	if strings.TrimSpace(m.Intro) == "" {
		v.add("intro", IssueEmptyIntro, "intro is empty")
	}

	v.text("title", m.Title)
	v.text("description", m.Description)
	v.text("intro", m.Intro)
	v.text("tip", m.Tip)
	v.text("table.title", m.Table.Title)

	for i, row := range m.Table.Data {
		path := fmt.Sprintf("table.data[%d]", i)
		if row.Len() == 0 {
			v.add(path, IssueEmptyRow, "row has no fields")
		}
		for _, f := range row {
			v.text(path+"."+f.Key, f.Value)
		}
	}

	if len(m.SpeakingPractice) == 0 {
		v.add("speakingPractice", IssueNoSpeakingPractice, "at least one speaking-practice item required")
	}
	questions := make(map[string]int, len(m.SpeakingPractice))
	for i, p := range m.SpeakingPractice {
		path := fmt.Sprintf("speakingPractice[%d]", i)
		v.practice(path, p)

		q := NormalizeText(p.Question)
		if q == "" {
			continue
		}
		if first, dup := questions[q]; dup {
			v.add(path+".question", IssueDuplicateQuestion,
				fmt.Sprintf("same question as speakingPractice[%d]", first))
		} else {
			questions[q] = i
		}
	}

	return v.issues
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []ValidationIssue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// IssuesError converts issues into a *ValidationError. Warnings are included
// only when strict is set. It returns nil when nothing qualifies.
func IssuesError(issues []ValidationIssue, strict bool) error {
	var errs []FieldError
	for _, i := range issues {
		if i.Severity != SeverityError && !strict {
			continue
		}
		errs = append(errs, FieldError{
			Field:   fmt.Sprintf("module[%d].%s", i.ModuleID, i.Path),
			Message: i.Message,
		})
	}
	if len(errs) == 0 {
		return nil
	}
	return NewValidationErrors(errs)
}

type validator struct {
	moduleID int
	issues   []ValidationIssue
}

func (v *validator) add(path string, code IssueCode, msg string) {
	v.issues = append(v.issues, ValidationIssue{
		ModuleID: v.moduleID,
		Path:     path,
		Code:     code,
		Severity: code.Severity(),
		Message:  msg,
	})
}

// text flags strings that are not NFC-normalized or carry stray spaces.
// Decomposed diacritics render differently and break exact-match comparisons.
func (v *validator) text(path, s string) {
	if s == "" {
		return
	}
	if !norm.NFC.IsNormalString(s) {
		v.add(path, IssueNonNFCText, "text is not NFC-normalized")
	}
	if CollapseSpaces(s) != s {
		v.add(path, IssueIrregularSpacing, "text has leading, trailing or repeated spaces")
	}
}

func (v *validator) practice(path string, p PracticeItem) {
	if strings.TrimSpace(p.Question) == "" {
		v.add(path+".question", IssueEmptyQuestion, "question is empty")
	}
	if strings.TrimSpace(p.Answer) == "" {
		v.add(path+".answer", IssueEmptyAnswer, "answer is empty")
	}
	v.text(path+".question", p.Question)
	v.text(path+".answer", p.Answer)

	mc := p.MultipleChoice
	if mc == nil {
		return
	}
	mcPath := path + ".multipleChoice"
	v.text(mcPath+".prompt", mc.Prompt)

	if len(mc.Options) < 2 {
		v.add(mcPath+".options", IssueTooFewOptions,
			fmt.Sprintf("expected at least 2 options, got %d", len(mc.Options)))
	}
	if n := len(mc.CorrectOptions()); n != 1 {
		v.add(mcPath+".options", IssueCorrectOptionCount,
			fmt.Sprintf("expected exactly one correct option, got %d", n))
	}

	seen := make(map[string]int, len(mc.Options))
	for j, o := range mc.Options {
		optPath := fmt.Sprintf("%s.options[%d]", mcPath, j)
		letter := strings.TrimSpace(o.Letter)
		if letter == "" {
			v.add(optPath+".letter", IssueEmptyOptionLetter, "option letter is empty")
		} else if first, dup := seen[letter]; dup {
			v.add(optPath+".letter", IssueDuplicateOptionLetter,
				fmt.Sprintf("letter %q already used by option %d", letter, first))
		} else {
			seen[letter] = j
		}
		if strings.TrimSpace(o.Text) == "" {
			v.add(optPath+".text", IssueEmptyOptionText, "option text is empty")
		}
		v.text(optPath+".text", o.Text)
	}
}
