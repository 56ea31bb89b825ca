package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cite/internal/config"
	"github.com/aidanlsb/cite/internal/model"
	"github.com/aidanlsb/cite/internal/ui"
)

var anchorsCmd = &cobra.Command{
	Use:   "anchors <file>",
	Short: "List the anchors a file exposes",
	Long: `Lists every heading and block anchor in the file together with the
fragment a link should use to reach it.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnchors,
}

// anchorRow is the JSON form of one anchor.
type anchorRow struct {
	model.Anchor
	Reference string `json:"reference"`
}

func runAnchors(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	p, err := newPipeline(args[0], config.Overrides{})
	if err != nil {
		return handleError(out, ErrConfigInvalid, err, "")
	}
	doc, err := p.cache.Resolve(cmd.Context(), args[0])
	if err != nil {
		return handleError(out, errorCode(err), err, "")
	}

	anchors := doc.Anchors()
	if isJSONOutput() {
		rows := make([]anchorRow, len(anchors))
		for i, a := range anchors {
			rows[i] = anchorRow{Anchor: a, Reference: "#" + a.Reference()}
		}
		meta := &Meta{Count: len(rows)}
		if fm := doc.Frontmatter(); fm != nil {
			meta.Frontmatter = fm.Fields
		}
		outputSuccess(out, rows, meta)
		return nil
	}

	printAnchors(out, doc.FilePath(), anchors, ui.DetectTerminal(os.Stdout).Width)
	return nil
}

func printAnchors(w io.Writer, path string, anchors []model.Anchor, width int) {
	if len(anchors) == 0 {
		fmt.Fprintf(w, "No anchors in %s\n", ui.FilePath(displayPath(path)))
		return
	}

	t := ui.NewTable("LINE", "KIND", "LINK AS", "TEXT")
	t.SetWidth(width)
	for _, a := range anchors {
		kind := string(a.Kind)
		if a.Explicit {
			kind += " (explicit)"
		}
		t.AddRow(strconv.Itoa(a.Line), kind, ui.Accent.Render("#"+a.Reference()), a.RawText)
	}
	fmt.Fprint(w, t.String())
}

func init() {
	rootCmd.AddCommand(anchorsCmd)
}
