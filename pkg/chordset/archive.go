package chordset

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

// Archive zips documents as user_chord_set_01.json, user_chord_set_02.json, ...
// in the order given. A nil document aborts the archive.
func Archive(docs []*Document, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i, doc := range docs {
		if doc == nil {
			return nil, fmt.Errorf("missing document for %s", FileName(i+1))
		}
		data, err := Encode(doc)
		if err != nil {
			return nil, err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     FileName(i + 1),
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", FileName(i+1), err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", FileName(i+1), err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}
	return buf.Bytes(), nil
}
