package xlsx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ukaji3/modelsheet-go/pkg/modelsheet"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/models"
)

// Export renders wb and writes it to path. It never overwrites: an existing
// file yields an *modelsheet.IOError wrapping modelsheet.ErrDestinationExists
// and is left untouched. A file this call created is removed again if the
// write fails.
func Export(wb models.Workbook, path string) error {
	f, err := Render(wb)
	if err != nil {
		return modelsheet.NewIOError("render", path, err)
	}
	defer f.Close()

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return modelsheet.NewIOError("create", path, fmt.Errorf("%w: %w", modelsheet.ErrDestinationExists, err))
		}
		return modelsheet.NewIOError("create", path, err)
	}

	if err := f.Write(out); err != nil {
		out.Close()
		os.Remove(path)
		return modelsheet.NewIOError("write", path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return modelsheet.NewIOError("close", path, err)
	}
	return nil
}

// ExportToDir writes wb into dir under wb.Name, creating dir if needed, and
// returns the full path.
func ExportToDir(wb models.Workbook, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", modelsheet.NewIOError("mkdir", dir, err)
	}
	path := filepath.Join(dir, wb.Name)
	if err := Export(wb, path); err != nil {
		return "", err
	}
	return path, nil
}
