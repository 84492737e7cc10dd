package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates no embedder can be built for a provider/model pair.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Ingestion Errors.

	// ErrUnsupportedType indicates the loader cannot parse a source type or format.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrLoadFailure indicates the loader failed to produce text.
	ErrLoadFailure = errors.New("unable to load document")

	// ErrEmptyDocument indicates loaded text is blank or holds only page-break markers.
	ErrEmptyDocument = errors.New("empty document")

	// ErrDocumentTooLarge indicates loaded text exceeds the configured size limit.
	ErrDocumentTooLarge = errors.New("document is too large")
)
