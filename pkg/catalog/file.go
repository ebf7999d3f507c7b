package catalog

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileSource reads keys from a local file, chosen by extension:
// .yaml/.yml and .json hold a list of strings or {key: ...} entries,
// anything else is one key per line with # comments.
type FileSource struct {
	Path string
}

func (s FileSource) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".yaml", ".yml":
		return parseYAMLKeys(data)
	case ".json":
		return ParseJSONKeys(data)
	default:
		return parseTextKeys(data)
	}
}

// parseYAMLKeys accepts a top-level sequence or a mapping with a "keys" sequence.
func parseYAMLKeys(data []byte) ([]string, error) {
	var items []any
	if err := yaml.Unmarshal(data, &items); err != nil {
		var doc struct {
			Keys []any `yaml:"keys"`
		}
		if docErr := yaml.Unmarshal(data, &doc); docErr != nil {
			return nil, fmt.Errorf("parse yaml key file: %w", err)
		}
		items = doc.Keys
	}

	keys := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			keys = append(keys, v)
		case map[string]any:
			if k, ok := v["key"].(string); ok {
				keys = append(keys, k)
			}
		}
	}
	return keys, nil
}

func parseTextKeys(data []byte) ([]string, error) {
	var keys []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keys = append(keys, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan key file: %w", err)
	}
	return keys, nil
}
