package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"modelq/internal/common/fsutil"
	"modelq/pkg/types"
)

// GGUFScanner discovers *.gguf model files in a directory.
type GGUFScanner struct{}

func NewGGUFScanner() *GGUFScanner { return &GGUFScanner{} }

// Scan builds a registry from filenames in dir, sorted by ID.
// ID is the full filename (including extension); Path is the absolute file path.
func (s *GGUFScanner) Scan(dir string) ([]types.Model, error) {
	abs, err := fsutil.Absolute(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		m := types.Model{ID: name, Name: name, Path: filepath.Join(abs, name), Quant: guessQuant(name)}
		if info, err := e.Info(); err == nil {
			m.SizeBytes = info.Size()
		}
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// LoadDir scans a directory for *.gguf files.
func LoadDir(dir string) ([]types.Model, error) {
	return NewGGUFScanner().Scan(dir)
}

// Resolve picks the model named by ref. ref may be a registry id (with or
// without the .gguf extension) or a path to an existing file.
func Resolve(models []types.Model, ref string) (types.Model, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return types.Model{}, fmt.Errorf("no model specified")
	}
	for _, m := range models {
		if m.ID == ref || strings.TrimSuffix(strings.ToLower(m.ID), ".gguf") == strings.ToLower(ref) {
			return m, nil
		}
	}
	abs, err := fsutil.Absolute(ref)
	if err != nil {
		return types.Model{}, err
	}
	if size, ok := fsutil.FileSize(abs); ok {
		name := filepath.Base(abs)
		return types.Model{ID: name, Name: name, Path: abs, Quant: guessQuant(name), SizeBytes: size}, nil
	}
	return types.Model{}, fmt.Errorf("model not found: %s", ref)
}

// guessQuant extracts a llama.cpp quantization tag such as Q4_K_M from a filename.
func guessQuant(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.FieldsFunc(stem, func(r rune) bool { return r == '.' || r == '-' })
	for i := len(parts) - 1; i >= 0; i-- {
		p := strings.ToUpper(parts[i])
		if (strings.HasPrefix(p, "Q") || strings.HasPrefix(p, "IQ")) && strings.ContainsAny(p, "0123456789") {
			return p
		}
		if p == "F16" || p == "F32" || p == "BF16" {
			return p
		}
	}
	return ""
}
