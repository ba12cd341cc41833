package domain

import "fmt"

// Module is one lesson's complete content bundle. Records are built once when
// the store loads and are treated as immutable afterwards.
type Module struct {
	// ID is the 1-based module number. It is extrinsic to the legacy literals
	// (encoded there only in the export name) and explicit here.
	ID int `json:"id" yaml:"id"`

	// Text fields always serialize, empty or not; renderers rely on the keys
	// being present.
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Intro       string `json:"intro" yaml:"intro"`
	Tip         string `json:"tip" yaml:"tip"`

	Table            Table          `json:"table" yaml:"table"`
	SpeakingPractice []PracticeItem `json:"speakingPractice" yaml:"speakingPractice"`
}

// Table is the module's example table.
type Table struct {
	Title string `json:"title" yaml:"title"`
	Data  []Row  `json:"data" yaml:"data"`
}

// PracticeItem is a speaking-practice question/answer pair.
type PracticeItem struct {
	Question       string          `json:"question" yaml:"question"`
	Answer         string          `json:"answer" yaml:"answer"`
	MultipleChoice *MultipleChoice `json:"multipleChoice,omitempty" yaml:"multipleChoice,omitempty"`
}

// MultipleChoice is a prompt plus lettered options, exactly one of which
// should be marked correct.
type MultipleChoice struct {
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Options []Option `json:"options" yaml:"options"`
}

// Option is one lettered answer of a MultipleChoice block.
type Option struct {
	Letter  string `json:"letter" yaml:"letter"`
	Text    string `json:"text" yaml:"text"`
	Correct bool   `json:"correct" yaml:"correct"`
}

// CorrectOptions returns the options marked correct.
func (mc *MultipleChoice) CorrectOptions() []Option {
	if mc == nil {
		return nil
	}
	var out []Option
	for _, o := range mc.Options {
		if o.Correct {
			out = append(out, o)
		}
	}
	return out
}

// Letters returns option letters in order.
func (mc *MultipleChoice) Letters() []string {
	if mc == nil {
		return nil
	}
	letters := make([]string, len(mc.Options))
	for i, o := range mc.Options {
		letters[i] = o.Letter
	}
	return letters
}

// ModuleSummary is the lightweight index entry used for menus.
type ModuleSummary struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Summary returns the module's index entry.
func (m *Module) Summary() ModuleSummary {
	return ModuleSummary{ID: m.ID, Title: m.Title, Description: m.Description}
}

// Key returns the legacy export name for the module, e.g. MODULE_21_DATA.
func (m *Module) Key() string {
	return ExportName(m.ID)
}

// ExportName returns the legacy export name for a module number.
func ExportName(id int) string {
	return fmt.Sprintf("MODULE_%d_DATA", id)
}

// ModuleStats counts structural elements of one module.
type ModuleStats struct {
	ID             int
	TableRows      int
	RowFields      int
	PracticeItems  int
	MultipleChoice int
	Options        int
}

// Stats computes the module's structural counts.
func (m *Module) Stats() ModuleStats {
	s := ModuleStats{
		ID:            m.ID,
		TableRows:     len(m.Table.Data),
		PracticeItems: len(m.SpeakingPractice),
	}
	for _, r := range m.Table.Data {
		s.RowFields += r.Len()
	}
	for _, p := range m.SpeakingPractice {
		if p.MultipleChoice != nil {
			s.MultipleChoice++
			s.Options += len(p.MultipleChoice.Options)
		}
	}
	return s
}

// StoreStats aggregates per-module counts for a whole store.
type StoreStats struct {
	Modules   int
	PerModule []ModuleStats
}

// ModuleRecord is a module prepared for persistence: its canonical body and
// content fingerprint.
type ModuleRecord struct {
	ID          int
	Title       string
	Description string
	Body        []byte
	Fingerprint string
}
