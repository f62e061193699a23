package constraints

import (
	"encoding/json"

	"github.com/elliotchance/pie/v2"
)

// KeySet is a set of catalog keys. It marshals as a sorted JSON array.
type KeySet map[string]struct{}

func NewKeySet(keys ...string) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s KeySet) Clone() KeySet {
	out := make(KeySet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

func (s KeySet) Len() int { return len(s) }

// Sorted returns the keys in lexical order.
func (s KeySet) Sorted() []string {
	if len(s) == 0 {
		return []string{}
	}
	return pie.Sort(pie.Keys(s))
}

func (s KeySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *KeySet) UnmarshalJSON(data []byte) error {
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*s = NewKeySet(keys...)
	return nil
}

func (s KeySet) add(keys ...string) {
	for _, k := range keys {
		s[k] = struct{}{}
	}
}

func (s KeySet) remove(keys ...string) {
	for _, k := range keys {
		delete(s, k)
	}
}

func (s KeySet) hasAll(keys []string) bool {
	return pie.All(keys, s.Has)
}
