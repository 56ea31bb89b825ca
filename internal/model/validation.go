package model

// ValidationStatus is the outcome class of a validated link.
type ValidationStatus string

const (
	StatusValid   ValidationStatus = "valid"
	StatusWarning ValidationStatus = "warning"
	StatusError   ValidationStatus = "error"
)

// Validation is the verdict attached to a link. It is closed: the only
// implementations are Valid, Warning and Error.
type Validation interface {
	validation()
}

// Valid means the link resolves to an existing file and anchor.
type Valid struct{}

// Warning means the link resolves, but is written in a fragile or
// non-canonical way.
type Warning struct {
	Message    string
	Suggestion *PathConversion
}

// Error means the link does not resolve.
type Error struct {
	Message string
	// Suggestion is a human-readable hint; empty when there is none.
	Suggestion string
}

func (Valid) validation()   {}
func (Warning) validation() {}
func (Error) validation()   {}

// ConversionKind says what part of a link a PathConversion rewrites.
type ConversionKind string

const (
	ConversionPath   ConversionKind = "path"
	ConversionAnchor ConversionKind = "anchor"
)

// PathConversion proposes replacing part of a link with a canonical form.
type PathConversion struct {
	Kind        ConversionKind `json:"kind"`
	Original    string         `json:"original"`
	Recommended string         `json:"recommended"`
}

// StatusOf maps a verdict to its status. A nil verdict panics, since an
// enriched link must always carry one.
func StatusOf(v Validation) ValidationStatus {
	switch v.(type) {
	case Valid:
		return StatusValid
	case Warning:
		return StatusWarning
	case Error:
		return StatusError
	default:
		panic("model: unknown validation variant")
	}
}

// ValidationSummary counts verdicts for one validation run.
type ValidationSummary struct {
	Total    int `json:"total"`
	Valid    int `json:"valid"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// Add counts one verdict.
func (s *ValidationSummary) Add(v Validation) {
	s.Total++
	switch StatusOf(v) {
	case StatusValid:
		s.Valid++
	case StatusWarning:
		s.Warnings++
	case StatusError:
		s.Errors++
	}
}

// validationJSON is the wire form of a Validation.
type validationJSON struct {
	Status     ValidationStatus `json:"status"`
	Message    string           `json:"message,omitempty"`
	Suggestion any              `json:"suggestion,omitempty"`
}

func toValidationJSON(v Validation) validationJSON {
	switch vv := v.(type) {
	case Warning:
		out := validationJSON{Status: StatusWarning, Message: vv.Message}
		if vv.Suggestion != nil {
			out.Suggestion = vv.Suggestion
		}
		return out
	case Error:
		out := validationJSON{Status: StatusError, Message: vv.Message}
		if vv.Suggestion != "" {
			out.Suggestion = vv.Suggestion
		}
		return out
	default:
		return validationJSON{Status: StatusOf(v)}
	}
}
