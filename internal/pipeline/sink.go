package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink persists named text outputs.
type Sink interface {
	Write(name, content string) (string, error)
}

// DirSink writes UTF-8 files into Dir, replacing existing files.
type DirSink struct {
	Dir string
}

func (s DirSink) Write(name, content string) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}
