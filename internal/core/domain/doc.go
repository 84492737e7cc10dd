// Package domain defines the core business entities for docbase.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentBase: A named collection of sources sharing one vector store
//   - DocumentSource: A leaf (file, url) or container (folder) source
//   - ChunkMetadata: The tag stored with every chunk row
//   - AppSettings: Ingestion, splitter and embedding configuration
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
