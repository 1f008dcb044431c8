package support

// Store exposes read-only access to the support library.
type Store interface {
	List() []Document
	ByLanguage(language string) []Document
}

// MemoryStore implements Store with an in-memory slice fixed at startup.
type MemoryStore struct {
	items []Document
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied documents.
func NewMemoryStore(items []Document) *MemoryStore {
	return &MemoryStore{items: append([]Document(nil), items...)}
}

// List returns every document.
func (s *MemoryStore) List() []Document {
	return append([]Document(nil), s.items...)
}

// ByLanguage returns the documents written in language, in library order.
func (s *MemoryStore) ByLanguage(language string) []Document {
	var out []Document
	for _, item := range s.items {
		if item.Language == language {
			out = append(out, item)
		}
	}
	return out
}
