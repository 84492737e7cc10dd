package domain

import (
	"fmt"
	"path/filepath"
)

// SourceType identifies what kind of origin a document source points at.
type SourceType string

// Available source types.
const (
	// SourceTypeFile is a single file on the local filesystem.
	SourceTypeFile SourceType = "file"

	// SourceTypeURL is a web page fetched over HTTP.
	SourceTypeURL SourceType = "url"

	// SourceTypeFolder is a directory whose files are ingested individually.
	SourceTypeFolder SourceType = "folder"
)

// IsValid returns true if the source type is recognised.
func (t SourceType) IsValid() bool {
	switch t {
	case SourceTypeFile, SourceTypeURL, SourceTypeFolder:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t SourceType) String() string {
	return string(t)
}

// ParseSourceType converts user input into a SourceType.
func ParseSourceType(s string) (SourceType, error) {
	t := SourceType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: source type %q", ErrUnsupportedType, s)
	}
	return t, nil
}

// DocumentSource is one ingested unit of a document base.
//
// It is a closed variant: the only implementations are *Leaf and *Container.
// Leaves address chunk rows in the vector store; containers group leaves
// and never own rows themselves.
type DocumentSource interface {
	// ID returns the source uuid.
	ID() string

	// Type returns the source type.
	Type() SourceType

	// Origin returns the path or URL the source was created from.
	Origin() string

	// Title returns the resolved title, falling back to the origin.
	Title() string

	// Children returns the leaves held by a container. Leaves return nil.
	Children() []*Leaf

	isDocumentSource()
}

// Leaf is a file or url source. Its uuid keys chunk rows in the vector store.
type Leaf struct {
	UUID       string
	SourceType SourceType
	URL        string

	// ResolvedTitle is set from loaded content (the <title> of a web page).
	// Empty means no title was resolved.
	ResolvedTitle string
}

// NewLeaf creates a leaf source.
func NewLeaf(uuid string, sourceType SourceType, origin string) *Leaf {
	return &Leaf{UUID: uuid, SourceType: sourceType, URL: origin}
}

// ID returns the leaf uuid.
func (l *Leaf) ID() string { return l.UUID }

// Type returns file or url.
func (l *Leaf) Type() SourceType { return l.SourceType }

// Origin returns the file path or URL.
func (l *Leaf) Origin() string { return l.URL }

// Children always returns nil for a leaf.
func (l *Leaf) Children() []*Leaf { return nil }

// Title returns the resolved title, or a fallback derived from the origin:
// the base name for files, the URL itself for web pages.
func (l *Leaf) Title() string {
	if l.ResolvedTitle != "" {
		return l.ResolvedTitle
	}
	if l.SourceType == SourceTypeFile {
		return filepath.Base(l.URL)
	}
	return l.URL
}

// SetTitle records a title resolved from loaded content.
func (l *Leaf) SetTitle(title string) {
	l.ResolvedTitle = title
}

func (l *Leaf) isDocumentSource() {}

// Container is a folder source. It holds leaf children in ingestion order.
type Container struct {
	UUID  string
	Path  string
	Items []*Leaf
}

// NewContainer creates an empty folder container.
func NewContainer(uuid, origin string) *Container {
	return &Container{UUID: uuid, Path: origin}
}

// ID returns the container uuid. It is never used as a vector store key.
func (c *Container) ID() string { return c.UUID }

// Type always returns SourceTypeFolder.
func (c *Container) Type() SourceType { return SourceTypeFolder }

// Origin returns the folder path.
func (c *Container) Origin() string { return c.Path }

// Title returns the folder base name.
func (c *Container) Title() string { return filepath.Base(c.Path) }

// Children returns the container's leaves.
func (c *Container) Children() []*Leaf { return c.Items }

// AddItem appends a leaf child.
func (c *Container) AddItem(leaf *Leaf) {
	c.Items = append(c.Items, leaf)
}

// RemoveItem removes the child with the given uuid.
// Returns false when no such child exists.
func (c *Container) RemoveItem(id string) bool {
	for i, item := range c.Items {
		if item.UUID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// ItemIDs returns a snapshot of the children's uuids.
func (c *Container) ItemIDs() []string {
	ids := make([]string, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.UUID
	}
	return ids
}

func (c *Container) isDocumentSource() {}

// NewSource builds the variant matching sourceType.
func NewSource(uuid string, sourceType SourceType, origin string) (DocumentSource, error) {
	if uuid == "" {
		return nil, fmt.Errorf("%w: empty source id", ErrInvalidInput)
	}
	switch sourceType {
	case SourceTypeFolder:
		return NewContainer(uuid, origin), nil
	case SourceTypeFile, SourceTypeURL:
		return NewLeaf(uuid, sourceType, origin), nil
	default:
		return nil, fmt.Errorf("%w: source type %q", ErrUnsupportedType, sourceType)
	}
}

// CloneSource returns a deep copy of a source.
func CloneSource(src DocumentSource) DocumentSource {
	switch s := src.(type) {
	case *Leaf:
		leaf := *s
		return &leaf
	case *Container:
		c := &Container{UUID: s.UUID, Path: s.Path, Items: make([]*Leaf, len(s.Items))}
		for i, item := range s.Items {
			leaf := *item
			c.Items[i] = &leaf
		}
		return c
	default:
		return nil
	}
}
