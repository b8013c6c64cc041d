package httpapi

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/Ethan1812/pdf-edit-online/assemble"
)

// writeZip streams files as a zip archive, one entry per file, in order.
func writeZip(w io.Writer, files []assemble.File) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		entry, err := zw.Create(f.Name)
		if err != nil {
			return fmt.Errorf("zip entry %s: %w", f.Name, err)
		}
		if _, err := entry.Write(f.Data); err != nil {
			return fmt.Errorf("zip write %s: %w", f.Name, err)
		}
	}
	return zw.Close()
}
