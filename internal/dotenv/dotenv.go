// Package dotenv parses .env files and loads them into the process environment.
package dotenv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFilename is the file name searched for by Find.
const DefaultFilename = ".env"

// maxParents bounds how far Find walks up from the start directory.
const maxParents = 5

var ErrNotFound = errors.New("dotenv: file not found")

// Options control parsing.
type Options struct {
	// Interpolate expands ${VAR} and ${VAR:-default} in unquoted and
	// double-quoted values, using earlier keys first and then the process
	// environment. A bare $VAR is left as written.
	Interpolate bool
}

// Values parses content and returns the key/value pairs it defines.
func Values(content string) map[string]string {
	return ValuesWith(content, Options{})
}

// ValuesWith parses content with the given options.
func ValuesWith(content string, opts Options) map[string]string {
	env := make(map[string]string)
	for _, line := range splitLines(content) {
		key, value, quote, ok := parseLine(line)
		if !ok {
			continue
		}
		if opts.Interpolate && quote != '\'' {
			value = expand(value, env)
		}
		env[key] = value
	}
	return env
}

// Parse reads .env content from r.
func Parse(r io.Reader) (map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	return Values(string(data)), nil
}

// Read parses the file at path.
func Read(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Values(string(data)), nil
}

// Find looks for a .env file in start and up to five parent directories.
func Find(start string) (string, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		start = wd
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for i := 0; i <= maxParents; i++ {
		candidate := filepath.Join(dir, DefaultFilename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ErrNotFound
}

// Load reads the file at path into the process environment. Existing
// variables are kept unless override is set. An empty path searches with
// Find. A missing file reports false without an error.
func Load(path string, override bool) (bool, error) {
	if path == "" {
		found, err := Find("")
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		path = found
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	for k, v := range ValuesWith(string(data), Options{Interpolate: true}) {
		if _, exists := os.LookupEnv(k); exists && !override {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return false, fmt.Errorf("set %s: %w", k, err)
		}
	}
	return true, nil
}

// SetEnv sets a process variable. When the key exists and override is false
// it is left alone and a warning is returned.
func SetEnv(key, value string, override bool) (bool, string) {
	if _, exists := os.LookupEnv(key); exists && !override {
		return false, fmt.Sprintf("Key '%s' already exists", key)
	}
	if err := os.Setenv(key, value); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// GetKey returns the value of key from the file at path.
func GetKey(path, key string) (string, bool, error) {
	env, err := Read(path)
	if err != nil {
		return "", false, err
	}
	v, ok := env[key]
	return v, ok, nil
}

// SetKey writes key=value to the file at path, replacing an existing
// assignment in place or appending a new line. The file is created if needed.
func SetKey(path, key, value string) error {
	lines, err := readLines(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	entry := key + "=" + quoteValue(value)
	replaced := false
	for i, line := range lines {
		if k, _, _, ok := parseLine(line); ok && k == key {
			lines[i] = entry
			replaced = true
		}
	}
	if !replaced {
		lines = append(lines, entry)
	}
	return writeLines(path, lines)
}

// UnsetKey removes every assignment of key from the file at path.
func UnsetKey(path, key string) (bool, error) {
	lines, err := readLines(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	kept := lines[:0]
	removed := false
	for _, line := range lines {
		if k, _, _, ok := parseLine(line); ok && k == key {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return false, nil
	}
	return true, writeLines(path, kept)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

func writeLines(path string, lines []string) error {
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	return os.WriteFile(path, []byte(content), 0600)
}

func quoteValue(v string) string {
	if v == "" || strings.ContainsAny(v, " \t#'\"\\\n=$") {
		r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
		return `"` + r.Replace(v) + `"`
	}
	return v
}
