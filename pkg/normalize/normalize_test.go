package normalize_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailmap/trailmap/pkg/normalize"
	"github.com/trailmap/trailmap/pkg/records"
)

func TestHikeAliases(t *testing.T) {
	tests := []struct {
		name string
		row  normalize.Row
		want records.Hike
	}{
		{
			name: "canonical keys",
			row: normalize.Row{
				"id": "r1", "name": "Lac de Gaube", "region": "Cauterets", "duration": "3h",
				"difficulty": "easy", "starting_point": "Pont d'Espagne", "link": "https://example.org/gaube",
				"lat": 42.83, "lon": -0.14, "notes": "busy in August",
			},
			want: records.Hike{
				ID: "r1", Name: "Lac de Gaube", Region: "Cauterets", Duration: "3h",
				Difficulty: "easy", StartingPoint: "Pont d'Espagne", Link: "https://example.org/gaube",
				Lat: records.Degrees(42.83), Lon: records.Degrees(-0.14), Notes: "busy in August",
			},
		},
		{
			name: "spreadsheet headers",
			row: normalize.Row{
				"Name": "Cirque de Gavarnie", "Region": "Gavarnie", "Duration": "4h", "Difficulty": "moderate",
				"Starting Point": "Gavarnie village", "Link": "https://example.org/gavarnie",
				"latitude": "42.7356", "longitude": "-0.0100",
			},
			want: records.Hike{
				Name: "Cirque de Gavarnie", Region: "Gavarnie", Duration: "4h", Difficulty: "moderate",
				StartingPoint: "Gavarnie village", Link: "https://example.org/gavarnie",
				Lat: records.Degrees(42.7356), Lon: records.Degrees(-0.01),
			},
		},
		{
			name: "hebrew headers",
			row: normalize.Row{
				"שם המסלול": "Estany de Sant Maurici", "איזור": "Aigüestortes", "משך": "2h",
				"קושי": "קל", "נקודת התחלה": "Espot", "קישור": "https://example.org/maurici",
				"lat": 42.58, "lng": 1.0,
			},
			want: records.Hike{
				Name: "Estany de Sant Maurici", Region: "Aigüestortes", Duration: "2h",
				Difficulty: "קל", StartingPoint: "Espot", Link: "https://example.org/maurici",
				Lat: records.Degrees(42.58), Lon: records.Degrees(1.0),
			},
		},
		{
			name: "alternate english keys",
			row:  normalize.Row{"title": "Brèche de Roland", "area": "Ordesa", "time": "7h", "trailhead": "Col des Tentes", "url": "u", "lng": "-0.04"},
			want: records.Hike{Name: "Brèche de Roland", Region: "Ordesa", Duration: "7h", StartingPoint: "Col des Tentes", Link: "u", Lon: records.Degrees(-0.04)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.Hike(tt.row))
		})
	}
}

func TestHikeFirstNonEmptyAliasWins(t *testing.T) {
	h := normalize.Hike(normalize.Row{"name": "", "Name": nil, "מסלול": "Pic du Midi", "title": "ignored"})
	assert.Equal(t, "Pic du Midi", h.Name)
}

func TestHikeEmptyRow(t *testing.T) {
	h := normalize.Hike(normalize.Row{})
	assert.Equal(t, records.Hike{}, h)
	assert.False(t, h.Lat.IsSet())
	assert.False(t, h.Lon.IsSet())
}

func TestHikeNeverProducesNaN(t *testing.T) {
	inputs := []any{"abc", "", nil, math.NaN(), math.Inf(1), true, []any{1}, map[string]any{"x": 1}, "1e999"}
	for _, in := range inputs {
		h := normalize.Hike(normalize.Row{"lat": in, "lon": in})
		lat, ok := h.Lat.Float64()
		assert.False(t, ok, "lat from %v", in)
		assert.False(t, math.IsNaN(lat))
		assert.False(t, h.Lon.IsSet(), "lon from %v", in)
	}
}

func TestHikeStringifiesScalars(t *testing.T) {
	h := normalize.Hike(normalize.Row{"id": 17.0, "duration": 5, "difficulty": true})
	assert.Equal(t, "17", h.ID)
	assert.Equal(t, "5", h.Duration)
	assert.Equal(t, "true", h.Difficulty)
}

func TestHikeNotes(t *testing.T) {
	t.Run("explicit notes", func(t *testing.T) {
		h := normalize.Hike(normalize.Row{"notes": "bring crampons", "extra": map[string]any{"x": 1}})
		assert.Equal(t, "bring crampons", h.Notes)
	})

	t.Run("extra dump", func(t *testing.T) {
		h := normalize.Hike(normalize.Row{"extra": map[string]any{"parking": "paid", "dogs": false}})
		assert.JSONEq(t, `{"parking":"paid","dogs":false}`, h.Notes)
	})

	t.Run("neither", func(t *testing.T) {
		assert.Equal(t, "", normalize.Hike(normalize.Row{"name": "x"}).Notes)
	})
}

func TestHikeTrimsKeys(t *testing.T) {
	row := normalize.Row{" Name ": "Pic de Néouvielle", "region\t": " Néouvielle "}
	h := normalize.Hike(row)
	assert.Equal(t, "Pic de Néouvielle", h.Name)
	assert.Equal(t, "Néouvielle", h.Region)
}

func TestHikeIsIdempotent(t *testing.T) {
	first := normalize.Hike(normalize.Row{"Name": "Pic d'Anie", "latitude": "42.95", "lng": -0.72})

	asRow := normalize.Row{
		"id": first.ID, "name": first.Name, "region": first.Region, "duration": first.Duration,
		"difficulty": first.Difficulty, "starting_point": first.StartingPoint, "link": first.Link,
		"lat": 42.95, "lon": -0.72, "notes": first.Notes,
	}
	assert.Equal(t, first, normalize.Hike(asRow))
}

func TestHikes(t *testing.T) {
	rows := normalize.Rows([]any{map[string]any{"name": "a"}, "junk", map[string]any{"Name": "b"}})
	require.Len(t, rows, 2)
	hikes := normalize.Hikes(rows)
	assert.Equal(t, "a", hikes[0].Name)
	assert.Equal(t, "b", hikes[1].Name)
}

func TestLocalKinds(t *testing.T) {
	l := normalize.Lodging(normalize.Row{"Name": "Refuge de Baysselance", "checkinDate": "2026-07-02", "checkin_time": "17:00", "lat": "42.76", "lon": "-0.16"})
	assert.Equal(t, "Refuge de Baysselance", l.Name)
	assert.Equal(t, "2026-07-02", l.CheckinDate)
	assert.Equal(t, "17:00", l.CheckinTime)
	assert.True(t, records.Mappable(l))

	a := normalize.Attraction(normalize.Row{"name": "Pic du Midi observatory", "Category": "viewpoint"})
	assert.Equal(t, "viewpoint", a.Category)
	assert.False(t, records.Mappable(a))
}
