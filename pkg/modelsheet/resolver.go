package modelsheet

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/models"
)

// Column keys seeded into every matched row.
const (
	KeyID   = "ID"
	KeyName = "Name"
)

var digitRun = regexp.MustCompile(`\d+`)

// ParseLabel extracts the element id from the first digit run of name and
// returns name with every "[id]" occurrence removed.
// Format: "Basic Wall [123]" -> 123, "Basic Wall ".
func ParseLabel(name string) (int64, string, error) {
	digits := digitRun.FindString(name)
	if digits == "" {
		return 0, "", &FormatError{Name: name}
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, "", &FormatError{Name: name, Err: err}
	}
	display := strings.ReplaceAll(name, "["+strconv.FormatInt(id, 10)+"]", "")
	return id, display, nil
}

// Resolve merges every property record of leafID into one row.
//
// Records are folded in collection order and groups in payload order. The
// first value seen for a key is kept; later ones are reported in
// ResolvedRow.Duplicates. Groups with the internal prefix are skipped.
// A leaf without any record yields an unmatched row carrying only its id.
func Resolve(leafID int64, collection models.PropertyCollection) (models.ResolvedRow, error) {
	row := models.ResolvedRow{ID: leafID}

	for _, rec := range collection.Matching(leafID) {
		id, display, err := ParseLabel(rec.Name)
		if err != nil {
			return models.ResolvedRow{}, err
		}

		if !row.Matched {
			row.ID = id
			row.DisplayName = display
			row.Matched = true
		}
		addProperty(&row, leafID, "", KeyID, strconv.FormatInt(id, 10))
		addProperty(&row, leafID, "", KeyName, display)

		for _, group := range rec.Groups {
			if group.Internal() {
				continue
			}
			for _, prop := range group.Properties {
				addProperty(&row, leafID, group.Name, prop.Key, prop.Value)
			}
		}
	}

	return row, nil
}

// addProperty inserts key unless the row already has it, recording the
// dropped value otherwise.
func addProperty(row *models.ResolvedRow, leafID int64, group, key, value string) {
	if row.Properties.Set(key, value) {
		return
	}
	row.Duplicates = append(row.Duplicates, models.DuplicateKey{
		ObjectID: leafID,
		Group:    group,
		Key:      key,
	})
}
