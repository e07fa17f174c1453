package serialization

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/born-ml/fwdiff/internal/forward"
)

// Encode converts the graphs under roots into a Document.
func Encode(roots ...*forward.Node) (*Document, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: nothing to encode", forward.ErrNilExpression)
	}
	for i, r := range roots {
		if r == nil {
			return nil, fmt.Errorf("%w: root %d", forward.ErrNilExpression, i)
		}
	}

	index := make(map[*forward.Node]int)
	doc := &Document{
		FormatVersion: FormatVersion,
		FwdiffVersion: fwdiffVersion,
		CreatedAt:     time.Now().UTC(),
		Roots:         make([]int, len(roots)),
	}

	forward.Walk(func(n *forward.Node) {
		meta := NodeMeta{}
		switch n.Kind() {
		case forward.KindVariable:
			meta.Kind = KindVariable
			meta.Name = n.Name()
		case forward.KindConstant:
			v := n.Literal()
			meta.Kind = KindConstant
			meta.Value = &v
		case forward.KindOperation:
			meta.Kind = KindOperation
			meta.Op = n.Op().Name
			children := n.Children()
			meta.Args = make([]int, len(children))
			for i, c := range children {
				meta.Args[i] = index[c]
			}
		}
		index[n] = len(doc.Nodes)
		doc.Nodes = append(doc.Nodes, meta)
	}, roots...)

	for i, r := range roots {
		doc.Roots[i] = index[r]
	}

	sum, err := ComputeChecksum(doc)
	if err != nil {
		return nil, err
	}
	doc.Checksum = sum
	return doc, nil
}

// Write encodes roots as indented JSON.
func Write(w io.Writer, roots ...*forward.Node) error {
	doc, err := Encode(roots...)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// SaveFile writes roots to path.
func SaveFile(path string, roots ...*forward.Node) error {
	//nolint:gosec // G304: path is chosen by the caller
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(file, roots...); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
