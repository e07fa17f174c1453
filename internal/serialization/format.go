package serialization

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Format constants.
const (
	FormatVersion = 1 // v1: JSON node list with SHA-256 checksum
	fwdiffVersion = "0.1.0"
)

// Node kinds as written in documents.
const (
	KindVariable  = "var"
	KindConstant  = "const"
	KindOperation = "op"
)

// Document is the exported form of one or more expression graphs.
type Document struct {
	FormatVersion int        `json:"format_version"` // Version of the document format
	FwdiffVersion string     `json:"fwdiff_version"` // Version that wrote the document
	CreatedAt     time.Time  `json:"created_at"`     // When the document was written
	Checksum      string     `json:"checksum"`       // Hex SHA-256 of Nodes and Roots
	Nodes         []NodeMeta `json:"nodes"`          // Distinct nodes, operands first
	Roots         []int      `json:"roots"`          // Indices of the exported expressions
}

// NodeMeta describes one node.
type NodeMeta struct {
	Kind  string   `json:"kind"`            // var, const or op
	Name  string   `json:"name,omitempty"`  // Variable name
	Value *float64 `json:"value,omitempty"` // Constant literal
	Op    string   `json:"op,omitempty"`    // Operation name
	Args  []int    `json:"args,omitempty"`  // Operand indices, all lower than this node's
}

// ComputeChecksum hashes the graph part of doc. Metadata is excluded so
// exporting the same graph again yields the same checksum.
func ComputeChecksum(doc *Document) (string, error) {
	body, err := json.Marshal(struct {
		Nodes []NodeMeta `json:"nodes"`
		Roots []int      `json:"roots"`
	}{doc.Nodes, doc.Roots})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}
