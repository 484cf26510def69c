// Package cmdutil provides shared flags and argument helpers for trailmap commands.
package cmdutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/normalize"
	"github.com/trailmap/trailmap/pkg/records"
)

// field describes one record flag and the canonical key it fills.
type field struct {
	flag  string
	key   string
	usage string
}

var (
	commonFields = []field{
		{"name", "name", "Name"},
		{"region", "region", "Region"},
		{"link", "link", "Link to details or a map"},
		{"lat", "lat", "Latitude in decimal degrees"},
		{"lon", "lon", "Longitude in decimal degrees"},
		{"notes", "notes", "Free-form notes"},
	}
	hikeFields = []field{
		{"duration", "duration", "Duration, e.g. 3h"},
		{"difficulty", "difficulty", "Difficulty"},
		{"start", "starting_point", "Starting point"},
	}
	lodgingFields = []field{
		{"checkin-date", "checkin_date", "Check-in date"},
		{"checkin-time", "checkin_time", "Check-in time"},
	}
	attractionFields = []field{
		{"category", "category", "Category"},
	}
)

// fieldsFor returns the flags a kind accepts.
func fieldsFor(kind records.Kind) []field {
	out := append([]field(nil), commonFields...)
	switch kind {
	case records.KindHikes:
		out = append(out, hikeFields...)
	case records.KindAccommodations:
		out = append(out, lodgingFields...)
	case records.KindAttractions:
		out = append(out, attractionFields...)
	}
	return out
}

// AddRecordFlags adds one flag per field of kind plus --from-json.
func AddRecordFlags(cmd *cobra.Command, kind records.Kind) {
	for _, f := range fieldsFor(kind) {
		cmd.Flags().String(f.flag, "", f.usage)
	}
	cmd.Flags().String("from-json", "", "Read the record from a JSON object file (- for stdin)")
}

// RecordRow builds a normalizer row from base overlaid with the record
// flags the user set. base may be nil.
func RecordRow(cmd *cobra.Command, kind records.Kind, base normalize.Row) (normalize.Row, error) {
	row := normalize.Row{}
	for k, v := range base {
		row[k] = v
	}

	if path, _ := cmd.Flags().GetString("from-json"); path != "" {
		fromFile, err := readJSONObject(cmd, path)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			row[k] = v
		}
	}

	for _, f := range fieldsFor(kind) {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		v, _ := cmd.Flags().GetString(f.flag)
		if f.key == "lat" || f.key == "lon" {
			if err := checkCoord(f.flag, v); err != nil {
				return nil, err
			}
		}
		row[f.key] = v
	}
	return row, nil
}

// Hike returns the hike described by the flags on top of base.
func Hike(cmd *cobra.Command, base records.Hike) (records.Hike, error) {
	row, err := RecordRow(cmd, records.KindHikes, toRow(base))
	if err != nil {
		return records.Hike{}, err
	}
	h := normalize.Hike(row)
	h.ID = base.ID
	return h, requireName(h.Name)
}

// Lodging returns the lodging described by the flags on top of base.
func Lodging(cmd *cobra.Command, base records.Lodging) (records.Lodging, error) {
	row, err := RecordRow(cmd, records.KindAccommodations, toRow(base))
	if err != nil {
		return records.Lodging{}, err
	}
	l := normalize.Lodging(row)
	return l, requireName(l.Name)
}

// Attraction returns the attraction described by the flags on top of base.
func Attraction(cmd *cobra.Command, base records.Attraction) (records.Attraction, error) {
	row, err := RecordRow(cmd, records.KindAttractions, toRow(base))
	if err != nil {
		return records.Attraction{}, err
	}
	a := normalize.Attraction(row)
	return a, requireName(a.Name)
}

// Index parses a record position argument.
func Index(arg string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || i < 0 {
		return 0, &errors.ValidationError{Field: "index", Value: arg, Message: "must be a non-negative integer"}
	}
	return i, nil
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &errors.ValidationError{Field: "name", Message: "cannot be empty"}
	}
	return nil
}

func checkCoord(flag, v string) error {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	if !records.ParseCoord(v).IsSet() {
		return &errors.ValidationError{Field: flag, Value: v, Message: "not a number"}
	}
	return nil
}

// toRow turns a record back into a canonical row through its JSON form.
func toRow(v any) normalize.Row {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var row normalize.Row
	if err := json.Unmarshal(data, &row); err != nil {
		return nil
	}
	return row
}

func readJSONObject(cmd *cobra.Command, path string) (normalize.Row, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var row normalize.Row
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return row, nil
}

// MustFlag reads a flag the command itself registered, such as
// MustFlag(cmd.Flags().GetBool, "yes"). A lookup error is a wiring bug and
// panics.
func MustFlag[T any](get func(string) (T, error), name string) T {
	v, err := get(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q: %v", name, err))
	}
	return v
}
