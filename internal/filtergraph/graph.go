// Package filtergraph builds ffmpeg filter_complex graphs as typed values.
// Graphs are assembled from filters and chains and serialized in one place,
// so no caller ever concatenates filter syntax by hand.
package filtergraph

import (
	"fmt"
	"strings"
)

// Filter is a single named filter with ordered arguments. Arguments are
// emitted verbatim joined by ':', matching ffmpeg's positional form.
type Filter struct {
	Name string
	Args []string
}

func (f Filter) String() string {
	if len(f.Args) == 0 {
		return f.Name
	}
	return f.Name + "=" + strings.Join(f.Args, ":")
}

// Chain is one linear filter chain with labeled inputs and outputs.
type Chain struct {
	Inputs  []string
	Filters []Filter
	Outputs []string
}

func (c Chain) String() string {
	var b strings.Builder
	for _, in := range c.Inputs {
		fmt.Fprintf(&b, "[%s]", in)
	}
	parts := make([]string, 0, len(c.Filters))
	for _, f := range c.Filters {
		parts = append(parts, f.String())
	}
	b.WriteString(strings.Join(parts, ","))
	for _, out := range c.Outputs {
		fmt.Fprintf(&b, "[%s]", out)
	}
	return b.String()
}

// Graph is an ordered collection of chains forming one filter_complex
// expression.
type Graph struct {
	Chains []Chain
}

// Add appends a chain and returns the graph for call chaining.
func (g *Graph) Add(chain Chain) *Graph {
	g.Chains = append(g.Chains, chain)
	return g
}

// String serializes the graph to filter_complex syntax with chains joined
// by ';'.
func (g *Graph) String() string {
	parts := make([]string, 0, len(g.Chains))
	for _, c := range g.Chains {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ";")
}
