package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/models"
)

// ParseHierarchy decodes an object-tree payload.
//
// Two shapes are accepted:
//
//	{"data":{"type":"objects","objects":[{"objectid":1,"name":"Model","objects":[...]}]}}
//	{"Walls":{"objects":[{"objectid":1},{"objectid":2}]}, "Doors":{...}}
//
// The second form is keyed by category name; it is wrapped in a synthetic
// root so that Hierarchy.Categories returns the categories in key order.
func ParseHierarchy(data []byte) (models.Hierarchy, error) {
	members, err := unwrapData(data)
	if err != nil {
		return models.Hierarchy{}, &ParseError{Payload: "hierarchy", Err: err}
	}

	if objects, ok := lookup(members, "objects"); ok && kind(objects) == '[' {
		roots, err := decodeChildren(objects)
		if err != nil {
			return models.Hierarchy{}, &ParseError{Payload: "hierarchy", Err: err}
		}
		return models.Hierarchy{Roots: roots}, nil
	}

	root := models.HierarchyNode{Kind: models.NodeInternal}
	for _, m := range members {
		if kind(m.Value) != '{' {
			continue
		}
		node, err := decodeNode(m.Value, m.Key)
		if err != nil {
			return models.Hierarchy{}, &ParseError{Payload: "hierarchy", Err: err}
		}
		root.Children = append(root.Children, node)
	}
	return models.Hierarchy{Roots: []models.HierarchyNode{root}}, nil
}

// LoadHierarchy reads and decodes a hierarchy payload from a file.
func LoadHierarchy(path string) (models.Hierarchy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Hierarchy{}, err
	}
	return ParseHierarchy(data)
}

// decodeNode decodes one node. The node is internal iff it carries an
// "objects" member, whatever that member holds. fallbackName is used when
// the node has no name of its own.
func decodeNode(raw json.RawMessage, fallbackName string) (models.HierarchyNode, error) {
	members, err := decodeObject(raw)
	if err != nil {
		return models.HierarchyNode{}, err
	}

	node := models.HierarchyNode{Kind: models.NodeLeaf, Name: fallbackName}
	for _, m := range members {
		switch m.Key {
		case "name":
			var name string
			if err := json.Unmarshal(m.Value, &name); err == nil {
				node.Name = name
			}
		case "objectid", "objectId":
			if id, ok := parseInt64(m.Value); ok {
				node.ObjectID = id
				node.HasObjectID = true
			}
		case "objects":
			node.Kind = models.NodeInternal
			children, err := decodeChildren(m.Value)
			if err != nil {
				return models.HierarchyNode{}, fmt.Errorf("node %q: %w", node.Name, err)
			}
			node.Children = children
		}
	}
	return node, nil
}

// decodeChildren decodes an "objects" member. Arrays and keyed objects are
// both accepted; anything else yields no children.
func decodeChildren(raw json.RawMessage) ([]models.HierarchyNode, error) {
	switch kind(raw) {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		children := make([]models.HierarchyNode, 0, len(items))
		for _, item := range items {
			if kind(item) != '{' {
				continue
			}
			child, err := decodeNode(item, "")
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return children, nil
	case '{':
		members, err := decodeObject(raw)
		if err != nil {
			return nil, err
		}
		children := make([]models.HierarchyNode, 0, len(members))
		for _, m := range members {
			if kind(m.Value) != '{' {
				continue
			}
			child, err := decodeNode(m.Value, m.Key)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return children, nil
	default:
		return []models.HierarchyNode{}, nil
	}
}
