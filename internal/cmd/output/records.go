package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/trailmap/trailmap/pkg/records"
)

// notesWidth caps the notes column outside wide mode.
const notesWidth = 40

// HikesToTableData converts indexed hikes to table format. Wide adds the
// server id, link, coordinates and notes.
func HikesToTableData(hikes []records.Indexed[records.Hike], wide bool) Data {
	headers := []string{"#", "Name", "Region", "Duration", "Difficulty", "Starting Point"}
	align := []Align{AlignRight}
	if wide {
		headers = append(headers, "ID", "Link", "Lat", "Lon", "Notes")
	}

	rows := make([][]string, 0, len(hikes))
	for _, h := range hikes {
		r := h.Record
		row := []string{strconv.Itoa(h.Index), r.Name, r.Region, r.Duration, r.Difficulty, r.StartingPoint}
		if wide {
			row = append(row, r.ID, r.Link, r.Lat.String(), r.Lon.String(), r.Notes)
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// LodgingsToTableData converts lodgings to table format.
func LodgingsToTableData(items []records.Lodging, wide bool) Data {
	headers := []string{"#", "Name", "Region", "Check-in Date", "Check-in Time"}
	if wide {
		headers = append(headers, "Link", "Lat", "Lon", "Notes")
	} else {
		headers = append(headers, "Notes")
	}

	rows := make([][]string, 0, len(items))
	for i, l := range items {
		row := []string{strconv.Itoa(i), l.Name, l.Region, l.CheckinDate, l.CheckinTime}
		if wide {
			row = append(row, l.Link, l.Lat.String(), l.Lon.String(), l.Notes)
		} else {
			row = append(row, truncate(l.Notes, notesWidth))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: []Align{AlignRight}}
}

// AttractionsToTableData converts attractions to table format.
func AttractionsToTableData(items []records.Attraction, wide bool) Data {
	headers := []string{"#", "Name", "Region", "Category"}
	if wide {
		headers = append(headers, "Link", "Lat", "Lon", "Notes")
	} else {
		headers = append(headers, "Notes")
	}

	rows := make([][]string, 0, len(items))
	for i, a := range items {
		row := []string{strconv.Itoa(i), a.Name, a.Region, a.Category}
		if wide {
			row = append(row, a.Link, a.Lat.String(), a.Lon.String(), a.Notes)
		} else {
			row = append(row, truncate(a.Notes, notesWidth))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: []Align{AlignRight}}
}

// BoundsToTableData renders a bounding box as a property table.
func BoundsToTableData(b records.Bounds) Data {
	lat, lon := b.Center()
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	return Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"South", f(b.South)},
			{"West", f(b.West)},
			{"North", f(b.North)},
			{"East", f(b.East)},
			{"Center", f(lat) + ", " + f(lon)},
			{"Points", strconv.Itoa(b.Count)},
		},
	}
}

// ListToTableData renders a single column of values.
func ListToTableData(header string, values []string) Data {
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{v}
	}
	return Data{Headers: []string{header}, Rows: rows}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// Render writes table for table formats and raw otherwise. An empty format
// is detected from the terminal.
func Render(w io.Writer, format string, table Data, raw any) error {
	f := DetectFormat(format)
	switch f {
	case FormatTable, FormatWide:
		return NewFormatter(f).Format(w, table)
	default:
		return NewFormatter(f).Format(w, raw)
	}
}
