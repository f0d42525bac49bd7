package xlsx

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// DefaultExtension is the workbook file extension written by Export.
const DefaultExtension = ".xlsx"

// maxSheetNameLength is the longest sheet name spreadsheet readers accept.
const maxSheetNameLength = 31

// WorkbookFileName derives the workbook file name from a model object key by
// replacing the model's extension, e.g. "tower.rvt" -> "tower.xlsx".
// Directory components of the key are dropped.
func WorkbookFileName(objectKey, ext string) string {
	if ext == "" {
		ext = DefaultExtension
	}
	name := filepath.Base(filepath.FromSlash(objectKey))
	if name == "." || name == string(filepath.Separator) {
		name = "model"
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}

// ViewFileName returns the file name for the index-th view of a model.
// The first view keeps the plain name; later views get "-<n>" before the
// extension, n being the 1-based view index.
func ViewFileName(name string, index int) string {
	if index == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), index+1, ext)
}

// SanitizeSheetName maps a category name onto a valid sheet name.
func SanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	name = truncate(name, maxSheetNameLength)
	name = strings.Trim(name, "'")
	if strings.TrimSpace(name) == "" {
		return "Sheet"
	}
	return name
}

// sheetNamer hands out unique, valid sheet names. Names compare
// case-insensitively, as spreadsheet readers do.
type sheetNamer struct {
	used map[string]struct{}
}

func newSheetNamer() *sheetNamer {
	return &sheetNamer{used: make(map[string]struct{})}
}

func (n *sheetNamer) next(category string) string {
	base := SanitizeSheetName(category)
	name := base
	for i := 2; ; i++ {
		if _, taken := n.used[strings.ToLower(name)]; !taken {
			break
		}
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncate(base, maxSheetNameLength-utf8.RuneCountInString(suffix)) + suffix
	}
	n.used[strings.ToLower(name)] = struct{}{}
	return name
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
