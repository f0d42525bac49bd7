// Package models defines data structures for model metadata flattening.
package models

// NodeKind distinguishes leaf elements from nodes that carry children.
type NodeKind int

const (
	// NodeLeaf is a terminal element with no nested objects.
	NodeLeaf NodeKind = iota
	// NodeInternal is a node whose payload carried an "objects" key.
	NodeInternal
)

// HierarchyNode is one node of a model view's object tree.
type HierarchyNode struct {
	// Kind is NodeLeaf or NodeInternal.
	Kind NodeKind `json:"-"`
	// Name is the display label, usually with an embedded "[id]".
	Name string `json:"name"`
	// ObjectID is the viewer object id; valid only when HasObjectID is set.
	ObjectID int64 `json:"objectid"`
	// HasObjectID reports whether the payload carried an object id.
	HasObjectID bool `json:"-"`
	// Children holds nested nodes in payload order (internal nodes only).
	Children []HierarchyNode `json:"objects,omitempty"`
}

// IsLeaf reports whether the node has no children mapping.
func (n HierarchyNode) IsLeaf() bool {
	return n.Kind == NodeLeaf
}

// Leaf returns a leaf node for the given object id.
func Leaf(name string, objectID int64) HierarchyNode {
	return HierarchyNode{Kind: NodeLeaf, Name: name, ObjectID: objectID, HasObjectID: true}
}

// Internal returns an internal node holding children.
func Internal(name string, objectID int64, children ...HierarchyNode) HierarchyNode {
	return HierarchyNode{
		Kind:        NodeInternal,
		Name:        name,
		ObjectID:    objectID,
		HasObjectID: true,
		Children:    children,
	}
}

// Hierarchy is the decoded object tree of one model view.
type Hierarchy struct {
	// Roots are the top-level objects of the view, normally a single model root.
	Roots []HierarchyNode `json:"objects"`
}

// Categories returns the children of the first root node. A view without
// roots, or whose first root is a leaf, has no categories.
func (h Hierarchy) Categories() []HierarchyNode {
	if len(h.Roots) == 0 || h.Roots[0].IsLeaf() {
		return nil
	}
	return h.Roots[0].Children
}
