package parser

import (
	"encoding/json"

	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/models"
)

// viewList is the shape of the metadata (view list) payload.
type viewList struct {
	Data struct {
		Type     string             `json:"type"`
		Metadata []models.ModelView `json:"metadata"`
	} `json:"data"`
}

// ParseViews decodes the list of metadata views of a translated model.
func ParseViews(data []byte) ([]models.ModelView, error) {
	var list viewList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, &ParseError{Payload: "views", Err: err}
	}
	return list.Data.Metadata, nil
}
