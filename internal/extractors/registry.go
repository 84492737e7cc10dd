package extractors

import (
	"github.com/custodia-labs/docbase/internal/core/ports/driven"
	"github.com/custodia-labs/docbase/internal/extractors/docx"
	"github.com/custodia-labs/docbase/internal/extractors/eml"
	"github.com/custodia-labs/docbase/internal/extractors/html"
	"github.com/custodia-labs/docbase/internal/extractors/markdown"
	"github.com/custodia-labs/docbase/internal/extractors/plaintext"
)

// All returns one instance of every built-in extractor.
func All() []driven.Extractor {
	return []driven.Extractor{
		plaintext.New(),
		markdown.New(),
		html.New(),
		docx.New(),
		eml.New(),
	}
}
