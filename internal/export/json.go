package export

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/san-kum/rulial/internal/rulial"
)

type jsonNode struct {
	ID    int    `json:"id"`
	Rules string `json:"rules"`
	Class int    `json:"class"`
}

type jsonGraph struct {
	Nodes   []jsonNode `json:"nodes"`
	Edges   [][2]int   `json:"edges"`
	Classes [][]int    `json:"classes"`
}

// JSON writes nodes, every directed edge (self loops included) and the
// equivalence classes.
func JSON(w io.Writer, g *rulial.Graph) error {
	class := ClassOf(g)
	doc := jsonGraph{
		Nodes:   make([]jsonNode, g.Len()),
		Edges:   make([][2]int, 0, g.EdgeCount()),
		Classes: g.Classes(),
	}
	for i, m := range g.Nodes() {
		doc.Nodes[i] = jsonNode{ID: m.ID, Rules: m.Rules.String(), Class: class[i]}
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, [2]int{e.From, e.To})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(doc), "export: encode json")
}
