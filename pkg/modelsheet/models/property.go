package models

import "strings"

// InternalGroupPrefix marks property groups that are never exported.
const InternalGroupPrefix = "__"

// Property is a single key/value pair inside a property group.
type Property struct {
	// Key is the property name.
	Key string `json:"key"`
	// Value is the string rendering of the payload value.
	Value string `json:"value"`
}

// PropertyGroup is a named, ordered set of properties.
type PropertyGroup struct {
	// Name is the group name, e.g. "Dimensions".
	Name string `json:"name"`
	// Properties are the group's entries in payload order.
	Properties []Property `json:"properties"`
}

// Internal reports whether the group is reserved metadata.
func (g PropertyGroup) Internal() bool {
	return strings.HasPrefix(g.Name, InternalGroupPrefix)
}

// PropertyRecord is one entry of a view's flat property collection.
type PropertyRecord struct {
	// ObjectID joins the record to hierarchy leaves.
	ObjectID int64 `json:"objectid"`
	// Name is the raw label, with the same "[id]" convention as hierarchy nodes.
	Name string `json:"name"`
	// ExternalID is the authoring tool's element id, when present.
	ExternalID string `json:"externalId,omitempty"`
	// Groups are the property groups in payload order.
	Groups []PropertyGroup `json:"properties"`
}

// PropertyCollection is the flat property list of a model view.
type PropertyCollection []PropertyRecord

// Matching returns every record whose object id equals id, in collection order.
// The whole collection is scanned on every call.
func (c PropertyCollection) Matching(id int64) []PropertyRecord {
	var out []PropertyRecord
	for _, rec := range c {
		if rec.ObjectID == id {
			out = append(out, rec)
		}
	}
	return out
}
