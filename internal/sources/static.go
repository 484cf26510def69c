package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/trailmap/trailmap/pkg/constants"
	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/logging"
	"github.com/trailmap/trailmap/pkg/normalize"
)

// StaticSource fetches a hikes file from a list of locations and returns
// the first one that yields rows. Locations are http(s) URLs or file paths;
// relative ones are resolved against Base.
type StaticSource struct {
	Base      string
	Locations []string
	Client    *http.Client
	logger    *zerolog.Logger
}

// NewStatic returns a static source. With no locations the defaults
// hikes.ls and hikes.json are tried.
func NewStatic(base string, locations ...string) *StaticSource {
	if len(locations) == 0 {
		locations = constants.DefaultStaticFiles
	}
	return &StaticSource{
		Base:      base,
		Locations: locations,
		Client:    &http.Client{Timeout: constants.DefaultHTTPTimeout},
		logger:    logging.Default(),
	}
}

// Type implements Source.
func (s *StaticSource) Type() Type { return Static }

// Rows implements Source. Fetch and parse failures of individual locations
// are logged and skipped.
func (s *StaticSource) Rows(ctx context.Context) ([]normalize.Row, error) {
	var lastErr error
	for _, loc := range s.Locations {
		target := s.resolve(loc)
		data, err := s.fetch(ctx, target)
		if err != nil {
			s.logger.Debug().Err(err).Str("location", target).Msg("static hikes unavailable")
			lastErr = err
			continue
		}
		rows, err := ParseLenient(data)
		if err != nil {
			s.logger.Debug().Err(err).Str("location", target).Msg("static hikes unreadable")
			lastErr = errors.WrapParse("json", target, err)
			continue
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if lastErr != nil {
		s.logger.Debug().Err(lastErr).Msg("no static hikes file found")
	}
	return nil, nil
}

func (s *StaticSource) resolve(loc string) string {
	if isURL(loc) || filepath.IsAbs(loc) || s.Base == "" {
		return loc
	}
	if isURL(s.Base) {
		base, err := url.Parse(strings.TrimSuffix(s.Base, "/") + "/")
		if err != nil {
			return loc
		}
		ref, err := url.Parse(loc)
		if err != nil {
			return loc
		}
		return base.ResolveReference(ref).String()
	}
	return filepath.Join(s.Base, loc)
}

func (s *StaticSource) fetch(ctx context.Context, target string) ([]byte, error) {
	if !isURL(target) {
		data, err := os.ReadFile(target)
		if err != nil {
			return nil, errors.WrapIO("read", target, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", target, err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, errors.WrapTransport("fetch", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewTransportError("fetch", resp.StatusCode, fmt.Errorf("%s", resp.Status))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, errors.WrapIO("read", target, err)
	}
	return data, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ParseLenient extracts hike rows from data. It accepts a JSON array, an
// object carrying a "hikes" or "rows" array, or either of those embedded in
// surrounding text such as a script assignment.
func ParseLenient(data []byte) ([]normalize.Row, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if len(data) == 0 {
		return nil, nil
	}
	if rows, err := decodeRows(data); err == nil {
		return rows, nil
	}

	if start, end := bytes.IndexByte(data, '['), bytes.LastIndexByte(data, ']'); start >= 0 && end > start {
		if rows, err := decodeRows(data[start : end+1]); err == nil {
			return rows, nil
		}
	}
	if start, end := bytes.IndexByte(data, '{'), bytes.LastIndexByte(data, '}'); start >= 0 && end > start {
		if rows, err := decodeRows(data[start : end+1]); err == nil {
			return rows, nil
		}
	}
	return nil, errors.NewParseError("json", "", "no JSON array or object found", nil)
}

func decodeRows(data []byte) ([]normalize.Row, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case []any:
		return normalize.Rows(t), nil
	case map[string]any:
		for _, key := range []string{"hikes", "rows"} {
			if items, ok := t[key].([]any); ok {
				return normalize.Rows(items), nil
			}
		}
		return nil, fmt.Errorf("object has no hikes array")
	default:
		return nil, fmt.Errorf("unexpected JSON %T", v)
	}
}
