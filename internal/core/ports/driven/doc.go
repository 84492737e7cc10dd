// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Ingestion Collaborators
//
// The DocumentBase orchestrator drives one unit of work through:
//
//   - Loader: Turns a file path or URL into plain text
//   - Splitter: Cuts text into ordered chunks
//   - Embedder: Produces one vector per chunk
//   - VectorStoreConnector: Opens the VectorStore of a base by its uuid
//   - VectorStore: Transactional chunk storage and similarity query
//   - FileEnumerator: Lists the files of a folder source
//
// # Supporting Interfaces
//
//   - BaseStore: Persists the registry of document bases
//   - EmbedderFactory: Builds an Embedder for a provider/model pair
//   - EmbeddingValidator: Checks a provider answers before it is used
//   - Extractor: Converts the bytes of one file format into text
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or splitter package
package driven
