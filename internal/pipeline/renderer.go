package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/ppiankov/wikibox/internal/model"
)

// Renderer prints infobox fields as "label: value" lines
type Renderer struct {
	align bool
}

// NewRenderer creates a renderer. With align set, labels are padded to the
// display width of the widest label.
func NewRenderer(align bool) *Renderer {
	return &Renderer{align: align}
}

// RenderFields writes one line per field in the given order.
// Runs of whitespace inside labels and values are collapsed so that each field
// stays on a single line.
func (r *Renderer) RenderFields(w io.Writer, fields []model.Field) error {
	width := 0
	if r.align {
		for _, f := range fields {
			if lw := runewidth.StringWidth(singleLine(f.Label)); lw > width {
				width = lw
			}
		}
	}

	for _, f := range fields {
		label := singleLine(f.Label)
		if r.align {
			label = runewidth.FillRight(label, width)
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", label, singleLine(f.Value)); err != nil {
			return err
		}
	}
	return nil
}

// RenderLookup writes a "== Title ==" heading followed by the lookup's fields
func (r *Renderer) RenderLookup(w io.Writer, lookup *model.Lookup) error {
	heading := strings.ReplaceAll(lookup.Title, "_", " ")
	if heading == "" {
		heading = lookup.Query
	}
	if _, err := fmt.Fprintf(w, "== %s ==\n", heading); err != nil {
		return err
	}
	if len(lookup.Fields) == 0 {
		_, err := fmt.Fprintf(w, "(no infobox, HTTP %d)\n", lookup.Meta.StatusCode)
		return err
	}
	return r.RenderFields(w, lookup.Fields)
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
