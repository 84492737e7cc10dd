// Package filesystem provides the local folder walker used by folder ingestion.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/docbase/internal/core/domain"
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

// Ensure Enumerator implements the interface.
var _ driven.FileEnumerator = (*Enumerator)(nil)

// Enumerator lists regular files beneath a folder.
// Hidden files and directories below the root are skipped.
type Enumerator struct{}

// NewEnumerator creates a file enumerator.
func NewEnumerator() *Enumerator {
	return &Enumerator{}
}

// ListFilesRecursively returns absolute paths of every visible regular file
// under folder, sorted lexically.
func (e *Enumerator) ListFilesRecursively(ctx context.Context, folder string) ([]string, error) {
	root, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("resolving folder: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrLoadFailure, folder, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, folder)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if isHidden(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", folder, err)
	}

	sort.Strings(files)
	return files, nil
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
