package driven

import "context"

// Splitter cuts text into ordered chunks.
type Splitter interface {
	// Name returns the strategy name (e.g. "fixed").
	Name() string

	// Split returns the chunks in document order.
	Split(ctx context.Context, text string) ([]string, error)
}
