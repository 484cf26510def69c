// Package normalize maps loosely keyed input rows onto the canonical record
// shapes. Rows come from the remote service, spreadsheets, bundled files and
// imports, and each source spells its columns differently.
//
// Every function here is pure and total: unknown keys are ignored, missing
// fields become "" or an absent coordinate, and nothing ever returns an error.
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/text/unicode/norm"

	"github.com/trailmap/trailmap/pkg/records"
)

// Aliases lists, per canonical field, the keys probed in order.
var Aliases = map[string][]string{
	"id":             {"id", "ID", "Id"},
	"name":           {"name", "Name", "מסלול", "שם המסלול", "title", "route"},
	"region":         {"region", "Region", "אזור", "איזור", "area"},
	"duration":       {"duration", "Duration", "משך", "time"},
	"difficulty":     {"difficulty", "Difficulty", "דרגת קושי", "קושי"},
	"starting_point": {"starting_point", "startingPoint", "Starting Point", "start", "trailhead", "נקודת התחלה"},
	"link":           {"link", "Link", "url", "details", "קישור"},
	"lat":            {"lat", "latitude", "Lat", "Latitude"},
	"lon":            {"lon", "lng", "longitude", "Lon", "Lng", "Longitude"},
	"notes":          {"notes", "Notes"},
	"category":       {"category", "Category", "type"},
	"checkin_date":   {"checkin_date", "checkinDate", "Check-in Date", "date"},
	"checkin_time":   {"checkin_time", "checkinTime", "Check-in Time"},
}

// Row is a raw input object keyed by whatever column names the source used.
type Row map[string]any

// lookup holds a row re-keyed to NFC so composed and decomposed spellings of
// the same alias collide.
type lookup map[string]any

func index(raw Row) lookup {
	out := make(lookup, len(raw))
	for k, v := range raw {
		key := norm.NFC.String(strings.TrimSpace(k))
		if _, dup := out[key]; dup {
			continue
		}
		out[key] = v
	}
	return out
}

// first returns the first alias value that is present, non-nil and not an
// empty string.
func (l lookup) first(field string) (any, bool) {
	for _, alias := range Aliases[field] {
		v, ok := l[norm.NFC.String(alias)]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func (l lookup) str(field string) string {
	v, ok := l.first(field)
	if !ok {
		return ""
	}
	switch v.(type) {
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func (l lookup) coord(field string) records.Coord {
	v, ok := l.first(field)
	if !ok {
		return records.NoCoord
	}
	return records.ParseCoord(v)
}

// notes prefers an explicit notes value and otherwise dumps extra as JSON.
func (l lookup) notes() string {
	if s := l.str("notes"); s != "" {
		return s
	}
	extra, ok := l["extra"]
	if !ok || extra == nil {
		return ""
	}
	b, err := json.Marshal(extra)
	if err != nil {
		return ""
	}
	return string(b)
}

// Hike normalizes one raw row into a hike.
func Hike(raw Row) records.Hike {
	l := index(raw)
	return records.Hike{
		ID:            l.str("id"),
		Name:          l.str("name"),
		Region:        l.str("region"),
		Duration:      l.str("duration"),
		Difficulty:    l.str("difficulty"),
		StartingPoint: l.str("starting_point"),
		Link:          l.str("link"),
		Lat:           l.coord("lat"),
		Lon:           l.coord("lon"),
		Notes:         l.notes(),
	}
}

// Hikes normalizes every row.
func Hikes(rows []Row) []records.Hike {
	out := make([]records.Hike, len(rows))
	for i, r := range rows {
		out[i] = Hike(r)
	}
	return out
}

// Lodging normalizes one raw row into a lodging.
func Lodging(raw Row) records.Lodging {
	l := index(raw)
	return records.Lodging{
		Name:        l.str("name"),
		Region:      l.str("region"),
		CheckinDate: l.str("checkin_date"),
		CheckinTime: l.str("checkin_time"),
		Link:        l.str("link"),
		Lat:         l.coord("lat"),
		Lon:         l.coord("lon"),
		Notes:       l.notes(),
	}
}

// Attraction normalizes one raw row into an attraction.
func Attraction(raw Row) records.Attraction {
	l := index(raw)
	return records.Attraction{
		Name:     l.str("name"),
		Region:   l.str("region"),
		Category: l.str("category"),
		Link:     l.str("link"),
		Lat:      l.coord("lat"),
		Lon:      l.coord("lon"),
		Notes:    l.notes(),
	}
}

// Rows converts decoded JSON or YAML values into rows, skipping anything
// that is not an object.
func Rows(items []any) []Row {
	out := make([]Row, 0, len(items))
	for _, item := range items {
		switch m := item.(type) {
		case map[string]any:
			out = append(out, Row(m))
		case Row:
			out = append(out, m)
		}
	}
	return out
}
