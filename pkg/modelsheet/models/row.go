package models

// DuplicateKey records a property key dropped because an earlier group or
// record already supplied it.
type DuplicateKey struct {
	// ObjectID is the leaf whose row was being resolved.
	ObjectID int64 `json:"objectid"`
	// Group is the group that carried the dropped value.
	Group string `json:"group"`
	// Key is the colliding property key.
	Key string `json:"key"`
}

// PropertySet is an insertion-ordered map of property key to string value.
// The zero value is ready to use.
type PropertySet struct {
	keys   []string
	values map[string]string
}

// Set inserts key if it is not present yet and reports whether it did.
// Existing values are never overwritten.
func (s *PropertySet) Set(key, value string) bool {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, ok := s.values[key]; ok {
		return false
	}
	s.keys = append(s.keys, key)
	s.values[key] = value
	return true
}

// Get returns the value stored for key.
func (s PropertySet) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (s PropertySet) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of keys.
func (s PropertySet) Len() int {
	return len(s.keys)
}

// ResolvedRow is the merged property record of one leaf element.
type ResolvedRow struct {
	// ID is parsed from the first digit run of the record name.
	ID int64 `json:"id"`
	// DisplayName is the record name with its "[id]" removed.
	DisplayName string `json:"name"`
	// Properties always start with "ID" and "Name" for matched rows.
	Properties PropertySet `json:"-"`
	// Matched is false when no property record referenced the leaf.
	Matched bool `json:"matched"`
	// Duplicates lists keys dropped by the first-seen rule.
	Duplicates []DuplicateKey `json:"duplicates,omitempty"`
}
