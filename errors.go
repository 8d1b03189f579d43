package claimsight

import (
	"errors"

	"claimsight/extract"
	"claimsight/graph"
	"claimsight/kb"
)

// Error kinds surfaced by the facade. Each aliases the sentinel of the
// package that produces it so errors.Is works regardless of which level
// callers check against.
var (
	// ErrUnsupportedFormat is returned for uploads with an unrecognized file type.
	ErrUnsupportedFormat = extract.ErrUnsupportedFormat

	// ErrDecode is returned when an upload of a supported type cannot be decoded.
	ErrDecode = extract.ErrDecode

	// ErrKnowledgeBaseLoad is returned for a malformed knowledge base file.
	// Fatal at startup.
	ErrKnowledgeBaseLoad = kb.ErrLoad

	// ErrDuplicateNode and ErrDanglingEdge are graph load-time integrity
	// violations. Fatal at startup.
	ErrDuplicateNode = graph.ErrDuplicateNode
	ErrDanglingEdge  = graph.ErrDanglingEdge

	// ErrUnknownNode is a runtime query against a missing node id.
	// Recoverable; surfaced to the caller as an empty result.
	ErrUnknownNode = graph.ErrUnknownNode

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("claimsight: invalid configuration")
)
