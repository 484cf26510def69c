package handlers

import (
	"net/http"

	"github.com/trailmap/trailmap/internal/bundle"
)

// boundsResult is the body of GET /bounds.
type boundsResult struct {
	South  float64    `json:"south"`
	West   float64    `json:"west"`
	North  float64    `json:"north"`
	East   float64    `json:"east"`
	Center [2]float64 `json:"center"`
	Points int        `json:"points"`
}

// HandleBounds handles GET /bounds. With no mappable record data is null.
func (h *Handlers) HandleBounds(w http.ResponseWriter, r *http.Request) {
	tm, ok := h.client(w, r)
	if !ok {
		return
	}
	h.cached(w, "bounds", func() (any, error) {
		b, found := tm.Bounds()
		if !found {
			return nil, nil
		}
		lat, lon := b.Center()
		return &boundsResult{
			South:  b.South,
			West:   b.West,
			North:  b.North,
			East:   b.East,
			Center: [2]float64{lat, lon},
			Points: b.Count,
		}, nil
	})
}

// HandleExport handles GET /export. The body is the bare export document,
// byte for byte what "trailmap export" writes, so it can be imported again.
// Errors still use the envelope.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	tm, ok := h.client(w, r)
	if !ok {
		return
	}
	doc, err := tm.Export(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data, err := bundle.Encode(doc)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="trailmap-export.json"`)
	_, _ = w.Write(data)
}
