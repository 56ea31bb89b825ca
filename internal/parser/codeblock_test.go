package parser

import (
	"testing"
)

func TestFenceState(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		wantOpen []bool // For each line, is it inside fence after processing?
	}{
		{
			name: "simple fenced block",
			lines: []string{
				"before",
				"```python",
				"print(1)",
				"def foo():",
				"```",
				"after",
			},
			wantOpen: []bool{false, true, true, true, false, false},
		},
		{
			name: "tilde fence",
			lines: []string{
				"before",
				"~~~",
				"[x](a.md)",
				"~~~",
				"after",
			},
			wantOpen: []bool{false, true, true, false, false},
		},
		{
			name: "nested backticks require more",
			lines: []string{
				"before",
				"````",
				"```",
				"still inside",
				"````",
				"after",
			},
			wantOpen: []bool{false, true, true, true, false, false},
		},
		{
			name: "blockquote with fence",
			lines: []string{
				"> ```python",
				"> [[inside]]",
				"> ```",
				"outside",
			},
			wantOpen: []bool{true, true, false, false},
		},
		{
			name: "list item with fence",
			lines: []string{
				"- ```python",
				"  ^notref here",
				"  ```",
				"after",
			},
			wantOpen: []bool{true, true, false, false},
		},
		{
			name: "nested list with fence",
			lines: []string{
				"- Item",
				"  - ```",
				"    [y](b.md)",
				"    ```",
				"  - after",
			},
			wantOpen: []bool{false, true, true, false, false},
		},
		{
			name: "asterisk list marker",
			lines: []string{
				"* ```",
				"  code",
				"* ```",
				"after",
			},
			wantOpen: []bool{true, true, false, false},
		},
		{
			name: "plus list marker",
			lines: []string{
				"+ ```",
				"  code",
				"+ ```",
				"after",
			},
			wantOpen: []bool{true, true, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := FenceState{}
			for i, line := range tt.lines {
				state.Update(line)
				if state.InFence != tt.wantOpen[i] {
					t.Errorf("line %d %q: InFence = %v, want %v",
						i, line, state.InFence, tt.wantOpen[i])
				}
			}
		})
	}
}

func TestBlankInlineCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple inline code",
			input: "text `^FR1` more",
			want:  "text        more",
		},
		{
			name:  "double backticks",
			input: "text ``a with `backtick` inside`` more",
			want:  "text                              more",
		},
		{
			name:  "multiple inline code spans",
			input: "`foo` and `bar` text",
			want:  "      and       text",
		},
		{
			name:  "no inline code",
			input: "[a](b.md) without code",
			want:  "[a](b.md) without code",
		},
		{
			name:  "unmatched backtick left alone",
			input: "a ` b [c](d.md)",
			want:  "a ` b [c](d.md)",
		},
		{
			name:  "ref inside inline code",
			input: "see `[[link]]` for details",
			want:  "see            for details",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BlankInlineCode(tt.input)
			if got != tt.want {
				t.Errorf("BlankInlineCode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestListMarkerNotConfusedWithFence(t *testing.T) {
	// A list item with content should NOT be detected as a fence
	tests := []struct {
		line      string
		wantFence bool
	}{
		{"* This is just a list item", false},
		{"- [link](a.md) regular item", false},
		{"+ some content", false},
		{"* ```", true},       // This IS a fence
		{"- ```python", true}, // This IS a fence
	}

	for _, tt := range tests {
		state := FenceState{}
		isFence := state.Update(tt.line)
		if isFence != tt.wantFence {
			t.Errorf("Update(%q) = %v, want %v", tt.line, isFence, tt.wantFence)
		}
	}
}
