package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/models"
)

// ParseProperties decodes a property-collection payload.
// Accepted shapes: {"data":{"collection":[...]}}, {"collection":[...]} and a
// bare array of records. Group and key order follow the document.
func ParseProperties(data []byte) (models.PropertyCollection, error) {
	raw := json.RawMessage(data)
	if kind(raw) == '{' {
		members, err := unwrapData(data)
		if err != nil {
			return nil, &ParseError{Payload: "properties", Err: err}
		}
		collection, ok := lookup(members, "collection")
		if !ok {
			return models.PropertyCollection{}, nil
		}
		raw = collection
	}

	if kind(raw) != '[' {
		return models.PropertyCollection{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &ParseError{Payload: "properties", Err: err}
	}

	records := make(models.PropertyCollection, 0, len(items))
	for i, item := range items {
		if kind(item) != '{' {
			continue
		}
		rec, err := decodeRecord(item)
		if err != nil {
			return nil, &ParseError{Payload: "properties", Err: fmt.Errorf("record %d: %w", i, err)}
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadProperties reads and decodes a property-collection payload from a file.
func LoadProperties(path string) (models.PropertyCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseProperties(data)
}

func decodeRecord(raw json.RawMessage) (models.PropertyRecord, error) {
	members, err := decodeObject(raw)
	if err != nil {
		return models.PropertyRecord{}, err
	}

	var rec models.PropertyRecord
	for _, m := range members {
		switch m.Key {
		case "objectid", "objectId":
			if id, ok := parseInt64(m.Value); ok {
				rec.ObjectID = id
			}
		case "name":
			_ = json.Unmarshal(m.Value, &rec.Name)
		case "externalId":
			_ = json.Unmarshal(m.Value, &rec.ExternalID)
		case "properties":
			groups, err := decodeGroups(m.Value)
			if err != nil {
				return models.PropertyRecord{}, fmt.Errorf("object %d: %w", rec.ObjectID, err)
			}
			rec.Groups = groups
		}
	}
	return rec, nil
}

// decodeGroups decodes the group-name -> properties mapping. Groups that are
// not objects are ignored.
func decodeGroups(raw json.RawMessage) ([]models.PropertyGroup, error) {
	if kind(raw) != '{' {
		return nil, nil
	}
	members, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	groups := make([]models.PropertyGroup, 0, len(members))
	for _, m := range members {
		if kind(m.Value) != '{' {
			continue
		}
		props, err := decodeObject(m.Value)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", m.Key, err)
		}
		group := models.PropertyGroup{
			Name:       m.Key,
			Properties: make([]models.Property, 0, len(props)),
		}
		for _, p := range props {
			group.Properties = append(group.Properties, models.Property{
				Key:   p.Key,
				Value: renderValue(p.Value),
			})
		}
		groups = append(groups, group)
	}
	return groups, nil
}
