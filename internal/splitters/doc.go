// Package splitters provides chunking strategies implementing the
// Splitter port, and a registry that builds one from SplitterSettings.
//
// Strategies:
//   - fixed: rune windows of ChunkSize with Overlap runes shared between neighbours
//   - sentence: SentencesPerChunk whole sentences per chunk
package splitters
