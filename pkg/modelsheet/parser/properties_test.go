package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/models"
)

func TestParseProperties(t *testing.T) {
	payload := `{
		"data": {
			"type": "properties",
			"collection": [{
				"objectid": 10,
				"name": "Basic Wall [316754]",
				"externalId": "abc-123",
				"properties": {
					"Dimensions": {"Width": "200 mm", "Area": 12.5, "Length": 4000},
					"__parent__": {"parent": 2},
					"Identity Data": {"Mark": null, "Tags": ["a", "b"], "Phase": {"id": 1}},
					"Notes": "not a group"
				}
			}]
		}
	}`

	collection, err := ParseProperties([]byte(payload))
	require.NoError(t, err)
	require.Len(t, collection, 1)

	rec := collection[0]
	assert.Equal(t, int64(10), rec.ObjectID)
	assert.Equal(t, "Basic Wall [316754]", rec.Name)
	assert.Equal(t, "abc-123", rec.ExternalID)

	require.Len(t, rec.Groups, 3)
	assert.Equal(t, models.PropertyGroup{
		Name: "Dimensions",
		Properties: []models.Property{
			{Key: "Width", Value: "200 mm"},
			{Key: "Area", Value: "12.5"},
			{Key: "Length", Value: "4000"},
		},
	}, rec.Groups[0])
	assert.True(t, rec.Groups[1].Internal())
	assert.Equal(t, []models.Property{
		{Key: "Mark", Value: ""},
		{Key: "Tags", Value: `["a","b"]`},
		{Key: "Phase", Value: `{"id":1}`},
	}, rec.Groups[2].Properties)
}

func TestParsePropertiesKeepsKeyOrder(t *testing.T) {
	payload := `[{"objectid": 1, "name": "A [1]", "properties": {"Z": {"z": 1, "a": 2, "m": 3}, "A": {"k": 0}}}]`

	collection, err := ParseProperties([]byte(payload))
	require.NoError(t, err)

	groups := collection[0].Groups
	require.Len(t, groups, 2)
	assert.Equal(t, "Z", groups[0].Name)
	assert.Equal(t, "A", groups[1].Name)

	var keys []string
	for _, p := range groups[0].Properties {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestParsePropertiesShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		records int
	}{
		{"envelope", `{"data":{"collection":[{"objectid":1,"name":"a [1]"}]}}`, 1},
		{"bare collection", `{"collection":[{"objectid":1,"name":"a [1]"},{"objectid":2,"name":"b [2]"}]}`, 2},
		{"array", `[{"objectid":1,"name":"a [1]"}]`, 1},
		{"no collection", `{"data":{"type":"properties"}}`, 0},
		{"non-object items", `[1, "x", {"objectid":3,"name":"c [3]"}]`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collection, err := ParseProperties([]byte(tt.payload))
			require.NoError(t, err)
			assert.Len(t, collection, tt.records)
		})
	}
}

func TestParsePropertiesMalformed(t *testing.T) {
	_, err := ParseProperties([]byte(`{"collection": [{"objectid": }]}`))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "properties", parseErr.Payload)
}

func TestParseViews(t *testing.T) {
	payload := `{"data":{"type":"metadata","metadata":[
		{"name":"{3D}","role":"3d","guid":"4f981e94-8241-4eaf-b08d-cd5e3ab8c0b8"},
		{"name":"Level 1","role":"2d","guid":"5e3a0f4f-8b8c-4a57-9a8f-6b2d33a1c7d1"}
	]}}`

	views, err := ParseViews([]byte(payload))
	require.NoError(t, err)

	assert.Equal(t, []models.ModelView{
		{Name: "{3D}", Role: "3d", GUID: "4f981e94-8241-4eaf-b08d-cd5e3ab8c0b8"},
		{Name: "Level 1", Role: "2d", GUID: "5e3a0f4f-8b8c-4a57-9a8f-6b2d33a1c7d1"},
	}, views)

	_, err = ParseViews([]byte(`{"data":`))
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
