// Package export writes rulial graphs as DOT, Mermaid, SVG and JSON.
package export

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/san-kum/rulial/internal/rulial"
)

// DOT renders g in Graphviz syntax. Nodes are filled by equivalence class.
func DOT(g *rulial.Graph) string {
	var sb strings.Builder
	directed := !g.IsSymmetric()
	arrow := "--"
	if directed {
		sb.WriteString("digraph rulial {\n")
		arrow = "->"
	} else {
		sb.WriteString("graph rulial {\n")
	}
	sb.WriteString("    node [shape=circle style=filled fontname=monospace];\n")

	colors := Palette(len(g.Classes()))
	class := ClassOf(g)
	for i, m := range g.Nodes() {
		fmt.Fprintf(&sb, "    n%d [label=%q tooltip=%s fillcolor=%q];\n",
			m.ID, strconv.Itoa(m.ID), strconv.Quote(m.Rules.String()), colors[class[i]].Hex())
	}
	for _, e := range g.Pairs() {
		fmt.Fprintf(&sb, "    n%d %s n%d;\n", e.From, arrow, e.To)
	}
	sb.WriteString("}\n")
	return sb.String()
}

// Mermaid renders g as a Mermaid flowchart with one classDef per class.
func Mermaid(g *rulial.Graph) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	arrow := "---"
	if !g.IsSymmetric() {
		arrow = "-->"
	}
	for _, m := range g.Nodes() {
		label := strings.ReplaceAll(m.Rules.String(), "\"", "'")
		fmt.Fprintf(&sb, "    %s((\"%d<br/>%s\"))\n", mermaidID(m.ID), m.ID, label)
	}
	for _, e := range g.Pairs() {
		fmt.Fprintf(&sb, "    %s %s %s\n", mermaidID(e.From), arrow, mermaidID(e.To))
	}

	classes := g.Classes()
	if len(classes) > 0 {
		sb.WriteString("\n    %% Equivalence classes\n")
	}
	colors := Palette(len(classes))
	for ci, ids := range classes {
		fmt.Fprintf(&sb, "    classDef c%d fill:%s,stroke:#333,color:#000;\n", ci, colors[ci].Hex())
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = mermaidID(id)
		}
		fmt.Fprintf(&sb, "    class %s c%d;\n", strings.Join(names, ","), ci)
	}
	return sb.String()
}

func mermaidID(id int) string {
	if id < 0 {
		return "m_" + strconv.Itoa(-id)
	}
	return "m" + strconv.Itoa(id)
}

// WriteFile writes data to path, or to stdout when path is empty or "-".
func WriteFile(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return errors.Wrap(err, "export: write stdout")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "export: write %s", path)
}
