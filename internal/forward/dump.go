package forward

import (
	"fmt"
	"io"
	"strings"
)

// Preorder writes the expression tree rooted at root, parents before
// children. Shared sub-expressions are printed under every parent. The
// output is diagnostic only.
func Preorder(w io.Writer, root *Node) error {
	return dump(w, root, 0, true)
}

// Postorder writes the expression tree children first, which is the order
// in which Evaluate computes it.
func Postorder(w io.Writer, root *Node) error {
	return dump(w, root, 0, false)
}

func dump(w io.Writer, n *Node, depth int, pre bool) error {
	if n == nil {
		return nil
	}
	line := fmt.Sprintf("%s%s #%d\n", strings.Repeat("  ", depth), n.Label(), n.id)
	if pre {
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	for _, c := range n.children {
		if err := dump(w, c, depth+1, pre); err != nil {
			return err
		}
	}
	if !pre {
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
