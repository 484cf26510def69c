package records

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Coord is a latitude or longitude in decimal degrees. The zero value is
// absent. A Coord built from NaN or an infinity is absent as well.
type Coord struct {
	deg float64
	ok  bool
}

// Degrees returns a present coordinate, or an absent one when v is not finite.
func Degrees(v float64) Coord {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Coord{}
	}
	return Coord{deg: v, ok: true}
}

// NoCoord is the absent coordinate.
var NoCoord = Coord{}

// Float64 returns the value and whether it is present.
func (c Coord) Float64() (float64, bool) { return c.deg, c.ok }

// IsSet reports whether the coordinate is present.
func (c Coord) IsSet() bool { return c.ok }

// String renders the coordinate, or "" when absent.
func (c Coord) String() string {
	if !c.ok {
		return ""
	}
	return strconv.FormatFloat(c.deg, 'f', -1, 64)
}

// MarshalJSON encodes an absent coordinate as null.
func (c Coord) MarshalJSON() ([]byte, error) {
	if !c.ok {
		return []byte("null"), nil
	}
	return json.Marshal(c.deg)
}

// UnmarshalJSON accepts null, numbers and numeric strings. Anything that
// does not parse to a finite number decodes as absent.
func (c *Coord) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Coord{}
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = ParseCoord(v)
	return nil
}

// MarshalYAML encodes an absent coordinate as null.
func (c Coord) MarshalYAML() (any, error) {
	if !c.ok {
		return nil, nil
	}
	return c.deg, nil
}

// UnmarshalYAML decodes the same inputs as UnmarshalJSON.
func (c *Coord) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	*c = ParseCoord(v)
	return nil
}

// ParseCoord converts a loosely typed value into a coordinate. Numbers and
// numeric strings (surrounding whitespace and a decimal comma tolerated) are
// accepted; everything else is absent.
func ParseCoord(v any) Coord {
	switch n := v.(type) {
	case nil:
		return Coord{}
	case float64:
		return Degrees(n)
	case float32:
		return Degrees(float64(n))
	case int:
		return Degrees(float64(n))
	case int64:
		return Degrees(float64(n))
	case uint64:
		return Degrees(float64(n))
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return Coord{}
		}
		return Degrees(f)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return Coord{}
		}
		if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
			s = strings.Replace(s, ",", ".", 1)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Coord{}
		}
		return Degrees(f)
	default:
		return Coord{}
	}
}
