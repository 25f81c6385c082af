package tomlparse

import (
	"fmt"
	"io"
	"os"
)

// Loads decodes a TOML document held in a string.
func Loads(s string) (map[string]any, error) {
	return decode([]byte(s))
}

// Load decodes a TOML document read from r.
func Load(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read toml: %w", err)
	}
	return decode(data)
}

// LoadFile decodes the TOML file at path.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func decode(data []byte) (map[string]any, error) {
	p := newParser(data)
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.root.toMap(), nil
}
