package migrate

// Options controls one migration run.
type Options struct {
	// OutDir receives one module_NN.yaml per migrated export.
	OutDir string
	// DryRun decodes and verifies everything but writes nothing.
	DryRun bool
}

// Result summarizes a migration run.
type Result struct {
	Exports   int // top-level keys in the legacy document
	Migrated  int // exports decoded into modules
	Written   int // files created or changed
	Unchanged int // files already identical on disk
	DryRun    bool

	// Skipped lists export names that do not follow MODULE_<N>_DATA.
	Skipped []string
	// Mismatches lists modules whose canonical form differs from the legacy
	// literal. They are reported, never repaired.
	Mismatches []Mismatch
}

// Mismatch describes a module that did not survive the round trip.
type Mismatch struct {
	Export   string
	ModuleID int
	Legacy   string // canonical JSON of the legacy literal
	Migrated string // canonical JSON of the decoded module without id
}

// OK reports whether every migrated module round-tripped.
func (r *Result) OK() bool {
	return len(r.Mismatches) == 0
}
