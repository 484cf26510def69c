// Package embedded carries the files compiled into the binary: the bundled
// default hikes and the JSON Schema for import documents.
package embedded

import (
	"embed"

	"github.com/goccy/go-yaml"

	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/normalize"
)

// FS embeds the defaults and schema directories at build time.
//
//go:embed defaults/*.yaml schema/*.json
var FS embed.FS

const (
	defaultHikesPath   = "defaults/hikes.yaml"
	documentSchemaPath = "schema/document.schema.json"
)

// DefaultHikes returns the bundled hikes as raw rows.
func DefaultHikes() ([]normalize.Row, error) {
	data, err := FS.ReadFile(defaultHikesPath)
	if err != nil {
		return nil, errors.WrapIO("read", defaultHikesPath, err)
	}
	var rows []map[string]any
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, errors.WrapParse("yaml", defaultHikesPath, err)
	}
	out := make([]normalize.Row, len(rows))
	for i, r := range rows {
		out[i] = normalize.Row(r)
	}
	return out, nil
}

// DocumentSchema returns the JSON Schema used to validate import documents.
func DocumentSchema() ([]byte, error) {
	data, err := FS.ReadFile(documentSchemaPath)
	if err != nil {
		return nil, errors.WrapIO("read", documentSchemaPath, err)
	}
	return data, nil
}
