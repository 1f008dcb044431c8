// Package retrieval selects support content for a set of topics and a language.
package retrieval

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/guardianlink/backend/internal/analysis/topic"
	"github.com/guardianlink/backend/internal/model/support"
)

// GenericMessage is returned when no document matches.
const GenericMessage = "Mental health is important. It's okay to seek help and support when needed."

// Retriever reads from a static document store.
type Retriever struct {
	docs support.Store
}

// New creates a Retriever over docs.
func New(docs support.Store) *Retriever {
	return &Retriever{docs: docs}
}

// Retrieve joins the bodies of all matching documents with a blank line.
// It never returns an empty string.
func (r *Retriever) Retrieve(tags []topic.Tag, lang string) string {
	candidates := r.docs.ByLanguage(NormalizeLanguage(lang))
	if len(candidates) == 0 {
		candidates = r.docs.ByLanguage(support.DefaultLanguage)
	}

	wantAll := topic.Contains(tags, support.TopicGeneral)
	var bodies []string
	for _, doc := range candidates {
		if wantAll || doc.Topic == support.TopicGeneral || topic.Contains(tags, doc.Topic) {
			bodies = append(bodies, doc.Text)
		}
	}

	if len(bodies) == 0 {
		return GenericMessage
	}
	return strings.Join(bodies, "\n\n")
}

// NormalizeLanguage reduces a BCP 47 tag to its base language ("en-US" -> "en").
// Unparsable input maps to the default language.
func NormalizeLanguage(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return support.DefaultLanguage
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return support.DefaultLanguage
	}
	base, _ := tag.Base()
	return base.String()
}
