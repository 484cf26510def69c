package records

import (
	"sort"
	"strings"
)

// Bounds is the smallest box holding a set of positions.
type Bounds struct {
	South float64 `json:"south" yaml:"south"`
	West  float64 `json:"west"  yaml:"west"`
	North float64 `json:"north" yaml:"north"`
	East  float64 `json:"east"  yaml:"east"`
	Count int     `json:"count" yaml:"count"`
}

// Center returns the midpoint of the box.
func (b Bounds) Center() (lat, lon float64) {
	return (b.South + b.North) / 2, (b.West + b.East) / 2
}

// Extend grows the box to contain every mappable placemark and returns it.
func (b Bounds) Extend(points ...Placemark) Bounds {
	for _, p := range points {
		lat, lon, ok := p.Position()
		if !ok {
			continue
		}
		if b.Count == 0 {
			b = Bounds{South: lat, North: lat, West: lon, East: lon}
		} else {
			b.South = min(b.South, lat)
			b.North = max(b.North, lat)
			b.West = min(b.West, lon)
			b.East = max(b.East, lon)
		}
		b.Count++
	}
	return b
}

// BoundsOf returns the box around the mappable placemarks and false when
// none of them has both coordinates.
func BoundsOf(points ...Placemark) (Bounds, bool) {
	b := Bounds{}.Extend(points...)
	return b, b.Count > 0
}

// Placemarks widens a typed slice for BoundsOf.
func Placemarks[T Placemark](items []T) []Placemark {
	out := make([]Placemark, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// Regions returns the distinct non-empty regions of items, sorted.
func Regions[T Placemark](items []T) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range items {
		r := strings.TrimSpace(item.Area())
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Indexed pairs a record with its position in the collection it came from.
type Indexed[T any] struct {
	Index  int `json:"index" yaml:"index"`
	Record T   `json:"record" yaml:"record"`
}

// InRegion returns the records whose region equals region, keeping their
// original positions. An empty region selects everything.
func InRegion[T Placemark](items []T, region string) []Indexed[T] {
	out := make([]Indexed[T], 0, len(items))
	for i, item := range items {
		if region == "" || item.Area() == region {
			out = append(out, Indexed[T]{Index: i, Record: item})
		}
	}
	return out
}
