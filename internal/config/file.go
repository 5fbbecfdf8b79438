package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrUnknownKey indicates a config command named a key that does not exist.
var ErrUnknownKey = errors.New("config: unknown key")

var intKeys = []string{
	"chunk_size",
	"chunk_overlap",
	"max_files",
	"embed_workers",
	"embedding_dimensions",
}

var listKeys = []string{
	"skip_patterns",
}

var stringKeys = []string{
	"repo_url",
	"branch",
	"github_token",
	"embedding_provider",
	"embedding_model_id",
	"ollama_url",
	"openai_api_key",
	"openai_base_url",
	"vector_backend",
	"bucket_name",
	"index_name",
	"aws_region",
	"sqlite_path",
	"log_level",
}

var secretKeys = []string{
	"github_token",
	"openai_api_key",
}

// KnownKeys returns every key the config command may read or write,
// sorted for display.
func KnownKeys() []string {
	keys := make([]string, 0, len(intKeys)+len(listKeys)+len(stringKeys))
	keys = append(keys, intKeys...)
	keys = append(keys, listKeys...)
	keys = append(keys, stringKeys...)
	slices.Sort(keys)
	return keys
}

// IsKnownKey reports whether key can be read or written.
func IsKnownKey(key string) bool {
	return slices.Contains(intKeys, key) ||
		slices.Contains(listKeys, key) ||
		slices.Contains(stringKeys, key)
}

// IsSecretKey reports whether key holds a credential. The config
// command hides terminal input and redacts display for these.
func IsSecretKey(key string) bool {
	return slices.Contains(secretKeys, key)
}

// ParseValue converts a raw command-line value into the type the key
// stores in TOML.
func ParseValue(key, raw string) (any, error) {
	switch {
	case slices.Contains(intKeys, key):
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer: %w", key, err)
		}
		return n, nil
	case slices.Contains(listKeys, key):
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		return values, nil
	case slices.Contains(stringKeys, key):
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// ReadValues returns the raw contents of the config file as a map.
// A missing file yields an empty map.
func ReadValues(path string) (map[string]any, error) {
	values := make(map[string]any)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return values, nil
}

// WriteValue sets key in the config file, creating the file and its
// directory on first use. Unrelated keys are preserved.
func WriteValue(path, key string, value any) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	values, err := ReadValues(path)
	if err != nil {
		return err
	}
	values[key] = value

	return writeValues(path, values)
}

// DeleteValue removes key from the config file. Deleting an absent
// key is not an error.
func DeleteValue(path, key string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	values, err := ReadValues(path)
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)

	return writeValues(path, values)
}

func writeValues(path string, values map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
