// Package serialization exports expression graphs as JSON documents for
// external tools.
//
// A document lists every distinct node once, operands before the operations
// that use them, and refers to operands by index. Shared sub-expressions
// therefore appear once.
//
//	{
//	  "format_version": 1,
//	  "fwdiff_version": "0.1.0",
//	  "created_at": "2025-01-01T00:00:00Z",
//	  "checksum": "<sha-256 of nodes and roots>",
//	  "nodes": [
//	    {"kind": "var", "name": "x"},
//	    {"kind": "const", "value": 2},
//	    {"kind": "op", "op": "mul", "args": [0, 1]}
//	  ],
//	  "roots": [2]
//	}
//
// The checksum covers only nodes and roots, so two exports of structurally
// equal graphs carry the same checksum. Documents are write-only: there is
// no reader, graphs are always rebuilt from expressions.
//
// Example usage:
//
//	if err := serialization.SaveFile("f.json", f); err != nil {
//	    log.Fatal(err)
//	}
package serialization
