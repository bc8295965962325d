package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"weathersnap/internal/models"
)

// Marshal encodes the payload as 2-space indented JSON with non-ASCII and HTML characters left as-is
func Marshal(payload models.Payload) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return buf.Bytes(), nil
}

// Writer writes payloads to a fixed file and confirms on stdout
type Writer struct {
	path   string
	stdout io.Writer
}

func NewWriter(path string, stdout io.Writer) *Writer {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Writer{path: path, stdout: stdout}
}

func (w *Writer) Path() string {
	return w.path
}

// Write replaces the target file with the encoded payload and prints "Wrote <name>".
// The payload is encoded before the file is touched, and the data lands through a
// rename so a failed write leaves any previous file intact.
func (w *Writer) Write(payload models.Payload) ([]byte, error) {
	data, err := Marshal(payload)
	if err != nil {
		return nil, err
	}

	if err := writeFile(w.path, data); err != nil {
		return nil, err
	}

	fmt.Fprintf(w.stdout, "Wrote %s\n", filepath.Base(w.path))
	return data, nil
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Read decodes a previously written payload
func Read(path string) (models.Payload, error) {
	var payload models.Payload
	data, err := os.ReadFile(path)
	if err != nil {
		return payload, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return payload, nil
}
