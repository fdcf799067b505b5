package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// PruneRenderer renders the result of a prune run
type PruneRenderer struct {
	out io.Writer
}

// NewPruneRenderer creates a new prune renderer
func NewPruneRenderer(out io.Writer) *PruneRenderer {
	return &PruneRenderer{out: out}
}

// Render lists the stale records and whether they were removed
func (r *PruneRenderer) Render(result *usecase.PruneResult) error {
	if result.Checked == 0 {
		fmt.Fprintf(r.out, "No deployments recorded on %s.\n", result.Network)
		return nil
	}
	if len(result.Stale) == 0 {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("All %d records on %s have code on chain", result.Checked, result.Network)))
		return nil
	}

	fmt.Fprintf(r.out, "Records without code on %s:\n", result.Network)
	for _, rec := range result.Stale {
		fmt.Fprintf(r.out, "  - %s %s\n", stepStyle.Sprint(rec.Name), addressStyle.Sprint(rec.Address))
	}
	fmt.Fprintln(r.out)

	if result.Removed {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Removed %d of %d records", len(result.Stale), result.Checked)))
	} else {
		fmt.Fprintln(r.out, FormatWarning("Dry run: nothing removed"))
	}
	return nil
}

var _ Renderer[*usecase.PruneResult] = (*PruneRenderer)(nil)
