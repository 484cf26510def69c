// Package records defines the canonical record shapes shared by every layer:
// remote-backed hikes and the two local-only kinds, lodgings and attractions.
//
// String fields use "" as their absent value. Coordinates use Coord, whose
// zero value is absent and which never holds NaN or an infinity.
package records

// Kind names a collection of records. The value doubles as the key used in
// export documents.
type Kind string

// Known kinds.
const (
	KindHikes          Kind = "hikes"
	KindAccommodations Kind = "accommodations"
	KindAttractions    Kind = "attractions"
)

// Kinds returns every known kind in display order.
func Kinds() []Kind {
	return []Kind{KindHikes, KindAccommodations, KindAttractions}
}

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// Singular returns the human name of one record of the kind.
func (k Kind) Singular() string {
	switch k {
	case KindHikes:
		return "hike"
	case KindAccommodations:
		return "lodging"
	case KindAttractions:
		return "attraction"
	default:
		return string(k)
	}
}

// Remote reports whether the kind is backed by the remote service.
func (k Kind) Remote() bool { return k == KindHikes }

// Hike is a remote-backed record. ID is empty until the remote has stored it.
type Hike struct {
	ID            string `json:"id"             yaml:"id,omitempty"`
	Name          string `json:"name"           yaml:"name"`
	Region        string `json:"region"         yaml:"region"`
	Duration      string `json:"duration"       yaml:"duration"`
	Difficulty    string `json:"difficulty"     yaml:"difficulty"`
	StartingPoint string `json:"starting_point" yaml:"starting_point"`
	Link          string `json:"link"           yaml:"link"`
	Lat           Coord  `json:"lat"            yaml:"lat"`
	Lon           Coord  `json:"lon"            yaml:"lon"`
	Notes         string `json:"notes"          yaml:"notes"`
}

// Lodging is a local-only accommodation record.
type Lodging struct {
	Name        string `json:"name"         yaml:"name"`
	Region      string `json:"region"       yaml:"region"`
	CheckinDate string `json:"checkin_date" yaml:"checkin_date"`
	CheckinTime string `json:"checkin_time" yaml:"checkin_time"`
	Link        string `json:"link"         yaml:"link"`
	Lat         Coord  `json:"lat"          yaml:"lat"`
	Lon         Coord  `json:"lon"          yaml:"lon"`
	Notes       string `json:"notes"        yaml:"notes"`
}

// Attraction is a local-only point of interest.
type Attraction struct {
	Name     string `json:"name"     yaml:"name"`
	Region   string `json:"region"   yaml:"region"`
	Category string `json:"category" yaml:"category"`
	Link     string `json:"link"     yaml:"link"`
	Lat      Coord  `json:"lat"      yaml:"lat"`
	Lon      Coord  `json:"lon"      yaml:"lon"`
	Notes    string `json:"notes"    yaml:"notes"`
}

// Placemark is implemented by every record kind.
type Placemark interface {
	Label() string
	Area() string
	Position() (lat, lon float64, ok bool)
}

// Label implements Placemark.
func (h Hike) Label() string { return h.Name }

// Area implements Placemark.
func (h Hike) Area() string { return h.Region }

// Position implements Placemark.
func (h Hike) Position() (float64, float64, bool) { return position(h.Lat, h.Lon) }

// WithoutID returns a copy of h with the server id cleared.
func (h Hike) WithoutID() Hike {
	h.ID = ""
	return h
}

// Label implements Placemark.
func (l Lodging) Label() string { return l.Name }

// Area implements Placemark.
func (l Lodging) Area() string { return l.Region }

// Position implements Placemark.
func (l Lodging) Position() (float64, float64, bool) { return position(l.Lat, l.Lon) }

// Label implements Placemark.
func (a Attraction) Label() string { return a.Name }

// Area implements Placemark.
func (a Attraction) Area() string { return a.Region }

// Position implements Placemark.
func (a Attraction) Position() (float64, float64, bool) { return position(a.Lat, a.Lon) }

// Mappable reports whether p has both coordinates.
func Mappable(p Placemark) bool {
	_, _, ok := p.Position()
	return ok
}

func position(lat, lon Coord) (float64, float64, bool) {
	la, okLat := lat.Float64()
	lo, okLon := lon.Float64()
	if !okLat || !okLon {
		return 0, 0, false
	}
	return la, lo, true
}
