package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// VerifyRenderer handles rendering of verification results
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// Render prints one line per artifact
func (r *VerifyRenderer) Render(outcomes []usecase.VerifyOutcome) error {
	if len(outcomes) == 0 {
		color.New(color.FgYellow).Fprintln(r.out, "No deployed contracts found to verify.")
		return nil
	}

	title := cases.Title(language.English)
	var failed int
	for _, o := range outcomes {
		status := title.String(o.Status)
		switch o.Status {
		case "verified":
			fmt.Fprintf(r.out, "  ✅ %s %s %s\n", stepStyle.Sprint(o.Name), addressStyle.Sprint(o.Address), successStyle.Sprint(status))
		case "skipped":
			fmt.Fprintf(r.out, "  ⏭️  %s %s %s\n", stepStyle.Sprint(o.Name), mutedStyle.Sprint(status), mutedStyle.Sprintf("(%s)", o.Reason))
		default:
			failed++
			fmt.Fprintf(r.out, "  ❌ %s %s: %s\n", stepStyle.Sprint(o.Name), errorStyle.Sprint(status), o.Reason)
		}
	}

	if failed > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%d of %d verifications failed", failed, len(outcomes))))
	}
	return nil
}

var _ Renderer[[]usecase.VerifyOutcome] = (*VerifyRenderer)(nil)
