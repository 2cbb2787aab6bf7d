package anvil

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// Keys returns the module's top-level keys in insertion order.
func (m *Module) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *Module) Contains(key string) bool {
	_, ok := m.index[key]
	return ok
}

// Get returns the value for key, or a *NoSuchKeyError carrying a
// fuzzy-matched suggestion drawn from the module's own keys.
func (m *Module) Get(key string) (Value, error) {
	if v, ok := m.index[key]; ok {
		return v, nil
	}
	return nil, &NoSuchKeyError{
		Module:     m.describeForError(),
		Key:        key,
		Suggestion: suggestKey(key, m.keys),
	}
}

// TryGet returns the value for key and whether it was present; it never
// fails.
func (m *Module) TryGet(key string) (Value, bool) {
	v, ok := m.index[key]
	return v, ok
}

func (m *Module) describeForError() string {
	if m.namespace != "" {
		return m.namespace
	}
	return m.sourceID
}

// suggestKey fuzzy-matches key against candidates and returns the
// closest match, or "" if candidates is empty or nothing matches well
// enough to be worth suggesting.
func suggestKey(key string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	matches := fuzzy.Find(key, candidates)
	if len(matches) == 0 {
		return ""
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches[0].Str
}

// ---- typed helpers: Get composed with the matching strict accessor ----

func (m *Module) GetString(key string) (string, error) {
	v, err := m.Get(key)
	if err != nil {
		return "", err
	}
	return v.AsString()
}

func (m *Module) GetLong(key string) (int64, error) {
	v, err := m.Get(key)
	if err != nil {
		return 0, err
	}
	return v.AsLong()
}

func (m *Module) GetDouble(key string) (float64, error) {
	v, err := m.Get(key)
	if err != nil {
		return 0, err
	}
	return v.AsDouble()
}

func (m *Module) GetBoolean(key string) (bool, error) {
	v, err := m.Get(key)
	if err != nil {
		return false, err
	}
	return v.AsBoolean()
}

func (m *Module) GetArray(key string) ([]Value, error) {
	v, err := m.Get(key)
	if err != nil {
		return nil, err
	}
	return v.AsArray()
}

func (m *Module) GetObject(key string) (*Module, error) {
	v, err := m.Get(key)
	if err != nil {
		return nil, err
	}
	return v.AsObject()
}

func (m *Module) GetTuple(key string) ([]Value, error) {
	v, err := m.Get(key)
	if err != nil {
		return nil, err
	}
	return v.AsTuple()
}

func (m *Module) GetBlob(key string) (Blob, error) {
	v, err := m.Get(key)
	if err != nil {
		return Blob{}, err
	}
	return v.AsBlob()
}
