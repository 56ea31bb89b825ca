package check

import (
	"github.com/aidanlsb/cite/internal/model"
)

// IssueLevel indicates the severity of an issue.
type IssueLevel int

const (
	LevelError IssueLevel = iota
	LevelWarning
)

func (l IssueLevel) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARN"
	default:
		return "UNKNOWN"
	}
}

// Issue is a non-valid link flattened for display.
type Issue struct {
	Level      IssueLevel
	FilePath   string
	Line       int
	Column     int
	Link       string
	Message    string
	Suggestion string
}

// Issues lists the warnings and errors of a result in link order.
func (r *Result) Issues() []Issue {
	var issues []Issue
	for _, l := range r.Links {
		issue := Issue{
			FilePath: l.SourcePath,
			Line:     l.Line,
			Column:   l.Column,
			Link:     l.RawMatchText,
		}
		switch v := l.Validation.(type) {
		case model.Error:
			issue.Level = LevelError
			issue.Message = v.Message
			issue.Suggestion = v.Suggestion
		case model.Warning:
			issue.Level = LevelWarning
			issue.Message = v.Message
			if v.Suggestion != nil {
				issue.Suggestion = "use " + v.Suggestion.Recommended + " instead of " + v.Suggestion.Original
			}
		default:
			continue
		}
		issues = append(issues, issue)
	}
	return issues
}

// HasErrors reports whether any link failed validation.
func (r *Result) HasErrors() bool {
	return r.Summary.Errors > 0
}
