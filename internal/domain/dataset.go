package domain

import "time"

// Kind identifies which payload a Dataset carries.
type Kind string

const (
	KindWarnings   Kind = "warnings"
	KindLabor      Kind = "labor"
	KindTides      Kind = "tides"
	KindIndicators Kind = "indicators"
)

// Dataset is the unit handed from an extractor to the loaders. Exactly one
// payload field is populated, matching Kind.
type Dataset struct {
	Kind       Kind
	Warnings   []WarningYear
	Labor      []LaborRecord
	Tides      []TideReading
	Indicators map[string]string
	FetchedAt  time.Time
}

// Len returns the number of rows in the populated payload.
func (d Dataset) Len() int {
	switch d.Kind {
	case KindWarnings:
		return len(d.Warnings)
	case KindLabor:
		return len(d.Labor)
	case KindTides:
		return len(d.Tides)
	case KindIndicators:
		return len(d.Indicators)
	default:
		return 0
	}
}

// Artifact describes one rendered output. Path is the primary file; Files
// lists every file written when there is more than one.
type Artifact struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Files  []string `json:"files,omitempty"`
	Frames int      `json:"frames,omitempty"`
}
