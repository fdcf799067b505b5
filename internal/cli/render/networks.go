package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out    io.Writer
	source string
}

// NewNetworksRenderer creates a new networks renderer. source names the file
// the profiles were loaded from.
func NewNetworksRenderer(out io.Writer, source string) *NetworksRenderer {
	return &NetworksRenderer{out: out, source: source}
}

// Render prints one row per network
func (r *NetworksRenderer) Render(networks []usecase.NetworkSummary) error {
	if len(networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	if r.source != "" {
		mutedStyle.Fprintf(r.out, "   from %s\n", r.source)
	}
	fmt.Fprintln(r.out)

	t := newTable(table.Row{"Network", "Chain ID", "Type", "Confirmations", "Deployments", "External addresses"})
	for _, n := range networks {
		p := n.Profile
		kind := "remote"
		if p.Local {
			kind = warnStyle.Sprint("local")
		}
		addrs := make([]string, 0, len(p.Addresses))
		for _, name := range p.AddressNames() {
			addrs = append(addrs, fmt.Sprintf("%s=%s", name, shortAddress(p.Addresses[name])))
		}
		t.AppendRow(table.Row{
			stepStyle.Sprint(p.Label()),
			p.ID,
			kind,
			p.Confirmations,
			n.Deployments,
			strings.Join(addrs, " "),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

var _ Renderer[[]usecase.NetworkSummary] = (*NetworksRenderer)(nil)
