// Package domain defines the core business entities for proofmark.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Snapshot: A flattened document with its position index
//   - ErrorSpan: A grammar match reported by an analysis provider
//   - MappedRange: An ErrorSpan resolved to document positions
//   - DecorationSet: The live set of mapped ranges for an editor session
//   - Mapping: The position transform produced by a document edit
//   - SuppressionEntry: A user-ignored error fingerprint
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
