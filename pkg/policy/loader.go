package policy

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ParseDeclaration reads a JSON policy document and wraps it in a
// declaration with the given name.
func ParseDeclaration(name string, r io.Reader) (*Declaration, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy document: %w", err)
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}

	return &Declaration{Name: name, Document: *doc}, nil
}

// LoadDeclaration loads a declaration file. The declaration name is the
// file name without its extension.
func LoadDeclaration(path string) (*Declaration, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open policy file: %w", err)
	}
	defer func() { _ = file.Close() }()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	decl, err := ParseDeclaration(name, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	decl.Source = path
	return decl, nil
}

// LoadDir walks a directory and loads every *.json declaration under it,
// sorted by path. A file that fails to parse aborts the walk; callers that
// want partial results should load files individually.
func LoadDir(dir string) ([]*Declaration, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	declarations := make([]*Declaration, 0, len(paths))
	for _, path := range paths {
		decl, err := LoadDeclaration(path)
		if err != nil {
			return nil, err
		}
		declarations = append(declarations, decl)
	}
	return declarations, nil
}
