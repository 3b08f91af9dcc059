package session

// Store exposes the session type catalogue.
type Store interface {
	List() []Type
	Find(value string) (Type, bool)
}

// MemoryStore implements Store over a fixed slice.
type MemoryStore struct {
	items []Type
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied types.
func NewMemoryStore(items []Type) *MemoryStore {
	return &MemoryStore{items: append([]Type(nil), items...)}
}

// List returns the catalogue in display order.
func (s *MemoryStore) List() []Type {
	return append([]Type(nil), s.items...)
}

// Find looks up a type by its submitted value.
func (s *MemoryStore) Find(value string) (Type, bool) {
	for _, item := range s.items {
		if item.Value == value {
			return item, true
		}
	}
	return Type{}, false
}
