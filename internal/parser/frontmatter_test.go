package parser

import (
	"testing"
)

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantNil     bool
		wantErr     bool
		wantTitle   string
		wantEndLine int
	}{
		{
			name: "basic frontmatter",
			content: `---
title: Auth design
status: draft
---

# Auth design

Some content`,
			wantTitle: "Auth design",
			// Closing --- is line 4.
			wantEndLine: 4,
		},
		{
			name:    "no frontmatter",
			content: "# Just a heading\n\nSome content",
			wantNil: true,
		},
		{
			name:    "unclosed frontmatter is not frontmatter",
			content: "---\ntitle: x\n\n# Heading",
			wantNil: true,
		},
		{
			name: "empty frontmatter still counts as frontmatter",
			content: `---
---

# Title
Content`,
			wantEndLine: 2,
		},
		{
			name: "invalid yaml keeps bounds",
			content: `---
title: [unclosed
---

Content`,
			wantErr:     true,
			wantEndLine: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, err := ParseFrontmatter(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantNil {
				if fm != nil {
					t.Error("expected nil frontmatter")
				}
				return
			}
			if fm == nil {
				t.Fatal("expected non-nil frontmatter")
			}

			if tt.wantErr {
				if fm.Fields != nil {
					t.Errorf("Fields = %v, want nil for invalid YAML", fm.Fields)
				}
			} else if fm.Fields == nil {
				t.Error("Fields should be non-nil for valid YAML")
			}

			if tt.wantTitle != "" && fm.Fields["title"] != tt.wantTitle {
				t.Errorf("title = %v, want %q", fm.Fields["title"], tt.wantTitle)
			}
			if fm.EndLine != tt.wantEndLine {
				t.Errorf("EndLine = %d, want %d", fm.EndLine, tt.wantEndLine)
			}
		})
	}
}

func TestFrontmatterBounds(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		wantEnd int
		wantOK  bool
	}{
		{"closed", []string{"---", "a: 1", "---", "body"}, 2, true},
		{"unclosed", []string{"---", "a: 1"}, -1, true},
		{"absent", []string{"# Title"}, -1, false},
		{"empty input", nil, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, end, ok := FrontmatterBounds(tt.lines)
			if end != tt.wantEnd || ok != tt.wantOK {
				t.Errorf("FrontmatterBounds() = (%d, %v), want (%d, %v)", end, ok, tt.wantEnd, tt.wantOK)
			}
		})
	}
}
