package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailmap/trailmap/pkg/records"
)

func sampleHikes() []records.Indexed[records.Hike] {
	return []records.Indexed[records.Hike]{
		{Index: 0, Record: records.Hike{ID: "a1", Name: "Nahal Amud", Region: "Galilee", Lat: records.Degrees(32.9)}},
		{Index: 3, Record: records.Hike{ID: "b2", Name: "Ein Gedi", Region: "Dead Sea", Notes: "bring water"}},
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", "yaml", "wide", ""} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := HikesToTableData(sampleHikes(), false)
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))

	out := buf.String()
	assert.Contains(t, out, "Nahal Amud")
	assert.Contains(t, out, "Ein Gedi")
	assert.NotContains(t, out, "a1", "server ids only show in wide mode")
}

func TestHikesWideColumns(t *testing.T) {
	data := HikesToTableData(sampleHikes(), true)
	assert.Len(t, data.Headers, 11)
	assert.Equal(t, "3", data.Rows[1][0], "original positions are kept")
	assert.Equal(t, "32.9", data.Rows[0][8])
	assert.Equal(t, "", data.Rows[0][9], "absent coordinate renders empty")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	hikes := []records.Hike{{Name: "Arbel", Lat: records.Degrees(32.8)}}
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, hikes))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Arbel", decoded[0]["name"])
	assert.Nil(t, decoded[0]["lon"])
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, map[string]int{"count": 2}))
	assert.Equal(t, "count: 2\n", buf.String())
}

func TestReflectionTableUsesStringer(t *testing.T) {
	var buf bytes.Buffer
	lodgings := []records.Lodging{{Name: "Guesthouse", Lat: records.Degrees(31.5)}}
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, lodgings))
	assert.Contains(t, buf.String(), "31.5")
	assert.Contains(t, strings.ToUpper(buf.String()), "CHECKIN DATE")
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	items := []records.Attraction{{Name: "Masada", Category: "fortress"}}
	require.NoError(t, Render(&buf, "json", AttractionsToTableData(items, false), items))
	assert.True(t, strings.HasPrefix(buf.String(), "["))

	buf.Reset()
	require.NoError(t, Render(&buf, "table", AttractionsToTableData(items, false), items))
	assert.Contains(t, buf.String(), "fortress")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "a b", truncate("a\nb", 10))
}

func TestBoundsToTableData(t *testing.T) {
	b := records.Bounds{South: 31, North: 33, West: 34, East: 36, Count: 4}
	data := BoundsToTableData(b)
	assert.Equal(t, []string{"Center", "32.000000, 35.000000"}, data.Rows[4])
	assert.Equal(t, []string{"Points", "4"}, data.Rows[5])
}
