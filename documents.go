package trailmap

import (
	"context"

	"github.com/trailmap/trailmap/internal/bundle"
	"github.com/trailmap/trailmap/internal/sheets"
	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/normalize"
	"github.com/trailmap/trailmap/pkg/records"
)

// Compile-time interface check to ensure proper implementation.
var _ Documents = (*client)(nil)

// Documents moves the whole catalog in and out.
type Documents interface {
	// Export returns every kind plus the hero image and backend override
	Export(ctx context.Context) (*bundle.Document, error)

	// ExportTo writes the export document to a path, "-" or s3://bucket/key
	ExportTo(ctx context.Context, location string) error

	// Import replaces the collections present in doc; hikes are not sent remotely
	Import(ctx context.Context, doc *bundle.Document) error

	// ImportFrom reads, validates and imports a document
	ImportFrom(ctx context.Context, location string) error

	// ImportSheet seeds the remote from a spreadsheet and returns the row count
	ImportSheet(ctx context.Context, path string) (int, error)

	// Bounds returns the box around every mappable record
	Bounds() (records.Bounds, bool)
}

// Export builds the export document.
func (c *client) Export(ctx context.Context) (*bundle.Document, error) {
	hero, err := c.cache.HeroURL(ctx)
	if err != nil {
		return nil, errors.WrapResource("export", "hero image", "", err)
	}
	override, err := c.cache.BackendURL(ctx)
	if err != nil {
		return nil, errors.WrapResource("export", "backend override", "", err)
	}
	return &bundle.Document{
		Hikes:          c.hikes.All(),
		Accommodations: c.lodgings.All(),
		Attractions:    c.attractions.All(),
		HeroImageURL:   bundle.StringPtr(hero),
		BackendURL:     bundle.StringPtr(override),
	}, nil
}

// ExportTo writes the export document to location.
func (c *client) ExportTo(ctx context.Context, location string) error {
	doc, err := c.Export(ctx)
	if err != nil {
		return err
	}
	data, err := bundle.Encode(doc)
	if err != nil {
		return err
	}
	if err := c.blobs.Write(ctx, location, data); err != nil {
		return err
	}
	c.logger.Info().
		Str("location", location).
		Int("hikes", len(doc.Hikes)).
		Int("accommodations", len(doc.Accommodations)).
		Int("attractions", len(doc.Attractions)).
		Msg("exported")
	return nil
}

// Import installs doc. Only the collections present in doc are replaced.
// Imported hikes clear the identity map; a later refresh brings back the
// remote view. Values are checked before anything changes, so a rejected
// document leaves the client as it was.
func (c *client) Import(ctx context.Context, doc *bundle.Document) error {
	if doc == nil {
		return errors.NewValidationError("document", nil, "cannot be nil")
	}
	if doc.BackendURL != nil {
		if _, err := checkBackendURL(*doc.BackendURL); err != nil {
			return err
		}
	}

	if doc.Hikes != nil {
		if err := c.ctrl.Replace(ctx, SourceImport, doc.Hikes); err != nil {
			return errors.WrapResource("import", "hike", "", err)
		}
	}
	if doc.Accommodations != nil {
		err := c.lodgings.Replace(doc.Accommodations)
		changed(c, c.lodgings, err)
		if err != nil {
			return errors.WrapResource("import", records.KindAccommodations.Singular(), "", err)
		}
	}
	if doc.Attractions != nil {
		err := c.attractions.Replace(doc.Attractions)
		changed(c, c.attractions, err)
		if err != nil {
			return errors.WrapResource("import", records.KindAttractions.Singular(), "", err)
		}
	}
	if doc.HeroImageURL != nil {
		if err := c.cache.SetHeroURL(ctx, *doc.HeroImageURL); err != nil {
			return errors.WrapResource("import", "hero image", "", err)
		}
	}
	if doc.BackendURL != nil {
		return c.SetBackendURL(ctx, *doc.BackendURL)
	}
	return nil
}

// ImportFrom reads location and imports it. A document that fails to parse
// or validate changes nothing.
func (c *client) ImportFrom(ctx context.Context, location string) error {
	data, err := c.blobs.Read(ctx, location)
	if err != nil {
		return err
	}
	doc, err := bundle.Decode(data)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) && pe.File == "" {
			pe.File = location
		}
		return err
	}
	if err := c.Import(ctx, doc); err != nil {
		return err
	}
	c.logger.Info().
		Str("location", location).
		Int("hikes", len(doc.Hikes)).
		Int("accommodations", len(doc.Accommodations)).
		Int("attractions", len(doc.Attractions)).
		Msg("imported")
	return nil
}

// ImportSheet reads the spreadsheet at path and seeds the remote with its
// rows.
func (c *client) ImportSheet(ctx context.Context, path string) (int, error) {
	rows, err := sheets.ReadFile(path)
	if err != nil {
		return 0, err
	}
	hikes := normalize.Hikes(rows)
	if err := c.ctrl.WipeAndSeed(ctx, hikes); err != nil {
		return 0, err
	}
	return len(hikes), nil
}

// Bounds returns the box around every mappable hike, lodging and
// attraction.
func (c *client) Bounds() (records.Bounds, bool) {
	points := records.Placemarks(c.hikes.All())
	points = append(points, records.Placemarks(c.lodgings.All())...)
	points = append(points, records.Placemarks(c.attractions.All())...)
	return records.BoundsOf(points...)
}
