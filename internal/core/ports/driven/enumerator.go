package driven

import "context"

// FileEnumerator lists the files beneath a folder.
type FileEnumerator interface {
	// ListFilesRecursively returns absolute file paths in lexical order.
	ListFilesRecursively(ctx context.Context, folder string) ([]string, error)
}
