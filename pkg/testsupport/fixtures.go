package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FixturePath joins elem under the package testdata directory.
func FixturePath(elem ...string) string {
	return filepath.Join(append([]string{"testdata"}, elem...)...)
}

// LoadFixture reads a raw fixture, usually a registry file.
func LoadFixture(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load fixture %s: %w", path, err)
	}
	return data, nil
}

// LoadGolden decodes a JSON golden file into v.
func LoadGolden(path string, v any) error {
	data, err := LoadFixture(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode golden %s: %w", path, err)
	}
	return nil
}
