// Package bundle reads and writes the portable JSON document that carries
// every record kind plus the hero image and backend override.
package bundle

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/trailmap/trailmap/internal/embedded"
	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/normalize"
	"github.com/trailmap/trailmap/pkg/records"
)

const schemaURL = "https://trailmap.dev/schema/document.json"

// Document is the export/import payload. A nil collection was absent from
// the imported document and leaves the current records alone; an empty one
// clears them.
type Document struct {
	Hikes          []records.Hike       `json:"hikes"          yaml:"hikes"`
	Accommodations []records.Lodging    `json:"accommodations" yaml:"accommodations"`
	Attractions    []records.Attraction `json:"attractions"    yaml:"attractions"`
	HeroImageURL   *string              `json:"heroImageUrl"   yaml:"heroImageUrl"`
	BackendURL     *string              `json:"backendUrl"     yaml:"backendUrl"`
}

// raw is the permissive shape accepted on import.
type raw struct {
	Hikes          []map[string]any `json:"hikes"`
	Accommodations []map[string]any `json:"accommodations"`
	Attractions    []map[string]any `json:"attractions"`
	HeroImageURL   any              `json:"heroImageUrl"`
	HeroImageSnake any              `json:"hero_image_url"`
	BackendURL     any              `json:"backendUrl"`
	BackendSnake   any              `json:"backend_url"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		data, err := embedded.DocumentSchema()
		if err != nil {
			schemaErr = err
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Validate checks data against the embedded document schema.
func Validate(data []byte) error {
	sch, err := compiled()
	if err != nil {
		return errors.NewConfigError("bundle", "document schema does not compile", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return errors.WrapParse("json", "", err)
	}
	if err := sch.Validate(inst); err != nil {
		return errors.NewParseError("json", "", "document does not match schema: "+err.Error(), err)
	}
	return nil
}

// Decode validates and parses a document. Hikes go through the normalizer
// so alias-keyed exports from older tools load. Nothing is returned on
// failure.
func Decode(data []byte) (*Document, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if err := Validate(data); err != nil {
		return nil, err
	}

	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.WrapParse("json", "", err)
	}

	doc := &Document{
		Hikes:          mapRows(r.Hikes, normalize.Hike),
		Accommodations: mapRows(r.Accommodations, normalize.Lodging),
		Attractions:    mapRows(r.Attractions, normalize.Attraction),
		HeroImageURL:   firstString(r.HeroImageURL, r.HeroImageSnake),
		BackendURL:     firstString(r.BackendURL, r.BackendSnake),
	}
	return doc, nil
}

// mapRows keeps the nil/empty distinction of rows.
func mapRows[T any](rows []map[string]any, fn func(normalize.Row) T) []T {
	if rows == nil {
		return nil
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, fn(r))
	}
	return out
}

// Encode renders doc as indented JSON. Nil collections encode as empty
// arrays.
func Encode(doc *Document) ([]byte, error) {
	out := *doc
	if out.Hikes == nil {
		out.Hikes = []records.Hike{}
	}
	if out.Accommodations == nil {
		out.Accommodations = []records.Lodging{}
	}
	if out.Attractions == nil {
		out.Attractions = []records.Attraction{}
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	return append(data, '\n'), nil
}

// StringPtr returns nil for "" and &s otherwise.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// DataURL encodes an image as a data URL. Content that does not sniff as an
// image is rejected.
func DataURL(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.NewValidationError("image", nil, "empty file")
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", errors.NewValidationError("image", mime, "not an image")
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func firstString(values ...any) *string {
	for _, v := range values {
		if s, ok := v.(string); ok {
			return &s
		}
	}
	return nil
}
