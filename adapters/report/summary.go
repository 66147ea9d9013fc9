// Package report renders a run manifest as a Markdown or HTML summary.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gobalance/domain/run"
	"gobalance/internal"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Summary writes a short human-readable run summary. Paths ending in .md get
// the Markdown source; everything else gets a complete HTML page.
type Summary struct {
	logger *internal.Logger
}

// NewSummary creates a summary writer
func NewSummary() *Summary {
	return &Summary{logger: internal.DefaultLogger.With("report")}
}

// Write renders manifest to path
func (s *Summary) Write(ctx context.Context, manifest *run.Manifest, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if manifest == nil {
		return fmt.Errorf("summary: manifest is nil")
	}
	if err := manifest.Validate(); err != nil {
		return fmt.Errorf("summary: %w", err)
	}

	image := manifest.Image
	if image != "" {
		if rel, err := filepath.Rel(filepath.Dir(path), image); err == nil {
			image = filepath.ToSlash(rel)
		}
	}
	md := Markdown(manifest, image)

	body := md
	if strings.ToLower(filepath.Ext(path)) != ".md" {
		body = ToHTML(md, manifest.Title)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("summary: failed to write %s: %w", path, err)
	}
	s.logger.Info("wrote summary %s", path)
	return nil
}

// Markdown builds the summary document. image is the link target for the
// figure; empty omits it.
func Markdown(m *run.Manifest, image string) []byte {
	var b strings.Builder

	title := m.Title
	if title == "" {
		title = m.Name
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Run `%s` at %s. ", m.RunID, m.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if m.XField != "" {
		fmt.Fprintf(&b, "`%s` against `%s`, degree %d.", m.YField, m.XField, m.Degree)
	}
	b.WriteString("\n\n")

	if image != "" {
		fmt.Fprintf(&b, "![%s](%s)\n\n", escape(title), image)
	}

	if len(m.Fits) > 0 {
		b.WriteString("## Fits\n\n")
		b.WriteString("| Group | Equation | N | X range |\n")
		b.WriteString("|---|---|---:|---|\n")
		for i, fit := range m.Fits {
			fmt.Fprintf(&b, "| %s | %s | %d | %g to %g |\n",
				escape(fit.Label), escape(m.Legends[i]), fit.N, fit.XMin, fit.XMax)
		}
		b.WriteString("\n")
	}

	if len(m.Groups) > 0 {
		b.WriteString("## Groups\n\n")
		b.WriteString("| Group | Rows | Points |\n")
		b.WriteString("|---|---:|---:|\n")
		for _, g := range m.Groups {
			fmt.Fprintf(&b, "| %s | %d | %d |\n", escape(g.Label), g.Rows, g.Points)
		}
		b.WriteString("\n")
	}

	if len(m.Sources) > 0 {
		b.WriteString("## Sources\n\n")
		for _, src := range m.Sources {
			fmt.Fprintf(&b, "- `%s` (%d rows, sha256 `%s`)\n", src.Path, src.Rows, src.Hash.Short())
		}
	}
	return []byte(b.String())
}

// ToHTML converts summary Markdown into a standalone page
func ToHTML(md []byte, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
	})
	return markdown.ToHTML(md, p, renderer)
}

func escape(s string) string {
	return strings.NewReplacer("|", `\|`, "[", `\[`, "]", `\]`).Replace(s)
}
