// Package render draws expression graphs, optionally annotated with the
// values and partial derivatives of an evaluation.
//
// Two text formats are produced:
//   - Mermaid flowcharts (".mmd", or ".md" wrapped in a mermaid fence)
//   - Graphviz DOT (".dot", ".gv")
//
// Edges point from operand to operation, the direction values flow during
// evaluation.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/born-ml/fwdiff/internal/forward"
)

// Format selects the output syntax.
type Format int

// Output formats.
const (
	FormatMermaid Format = iota
	FormatMarkdown
	FormatDOT
)

// FormatFor picks the format from a file extension. Unknown extensions get
// plain Mermaid.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".dot", ".gv":
		return FormatDOT
	default:
		return FormatMermaid
	}
}

// File is a forward.Plotter writing to the given path in the format its
// extension asks for.
type File struct{}

// Plot implements forward.Plotter.
func (File) Plot(path string, snap *forward.Snapshot) error {
	return os.WriteFile(path, []byte(Render(FormatFor(path), snap.Root, snap)), 0o644)
}

// Render draws root in format f. snap may be nil for a structural drawing.
func Render(f Format, root *forward.Node, snap *forward.Snapshot) string {
	switch f {
	case FormatDOT:
		return DOT(root, snap)
	case FormatMarkdown:
		return "```mermaid\n" + Mermaid(root, snap) + "```\n"
	default:
		return Mermaid(root, snap)
	}
}

// Mermaid produces a `graph BT` flowchart. Variables are drawn as circles,
// constants as stadiums and operations as rectangles; when snap is given
// every node label carries its value and partials.
func Mermaid(root *forward.Node, snap *forward.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("graph BT\n")

	var vars, consts []string
	forward.Walk(func(n *forward.Node) {
		id := nodeID(n)
		opener, closer := "[", "]"
		switch n.Kind() {
		case forward.KindVariable:
			opener, closer = "((", "))"
			vars = append(vars, id)
		case forward.KindConstant:
			opener, closer = "([", "])"
			consts = append(consts, id)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, strings.Join(lines(n, snap), "<br/>"), closer)
		for _, c := range n.Children() {
			fmt.Fprintf(&sb, "    %s --> %s\n", nodeID(c), id)
		}
	}, root)

	sb.WriteString("\n    classDef variable fill:#e1f5fe,stroke:#01579b,color:#000;\n")
	sb.WriteString("    classDef constant fill:#eeeeee,stroke:#616161,color:#000;\n")
	sb.WriteString("    classDef output stroke:#fbc02d,stroke-width:4px;\n")
	if len(vars) > 0 {
		fmt.Fprintf(&sb, "    class %s variable;\n", strings.Join(vars, ","))
	}
	if len(consts) > 0 {
		fmt.Fprintf(&sb, "    class %s constant;\n", strings.Join(consts, ","))
	}
	fmt.Fprintf(&sb, "    class %s output;\n", nodeID(root))
	return sb.String()
}

// DOT produces a Graphviz digraph laid out bottom to top.
func DOT(root *forward.Node, snap *forward.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("digraph fwdiff {\n    rankdir=BT;\n")

	forward.Walk(func(n *forward.Node) {
		shape := "box"
		switch n.Kind() {
		case forward.KindVariable:
			shape = "ellipse"
		case forward.KindConstant:
			shape = "plaintext"
		}
		extra := ""
		if n == root {
			extra = ", penwidth=3"
		}
		fmt.Fprintf(&sb, "    %s [label=%s, shape=%s%s];\n",
			nodeID(n), strconv.Quote(strings.Join(lines(n, snap), "\n")), shape, extra)
		for _, c := range n.Children() {
			fmt.Fprintf(&sb, "    %s -> %s;\n", nodeID(c), nodeID(n))
		}
	}, root)

	sb.WriteString("}\n")
	return sb.String()
}

func nodeID(n *forward.Node) string {
	return "n" + strconv.FormatUint(n.ID(), 10)
}

// lines is the label text of n: its description, then value and partials
// when the snapshot has them.
func lines(n *forward.Node, snap *forward.Snapshot) []string {
	out := []string{escape(n.Label())}
	if snap == nil {
		return out
	}
	st, ok := snap.State(n)
	if !ok {
		return out
	}
	out = append(out, "value = "+formatValue(st.Value))
	for _, name := range snap.Tracked {
		out = append(out, fmt.Sprintf("d/d%s = %s", escape(name), formatValue(st.Derivative[name])))
	}
	return out
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
