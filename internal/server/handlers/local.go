package handlers

import (
	"net/http"

	"github.com/trailmap/trailmap"
	"github.com/trailmap/trailmap/internal/server/response"
	"github.com/trailmap/trailmap/pkg/normalize"
	"github.com/trailmap/trailmap/pkg/records"
)

// localKind binds the endpoints of a local-only kind to the client methods
// that serve it.
type localKind[T records.Placemark] struct {
	kind   records.Kind
	list   func(trailmap.Client) []T
	add    func(trailmap.Client, T) (int, error)
	update func(trailmap.Client, int, T) error
	remove func(trailmap.Client, int) error
	build  func(normalize.Row) T
}

var (
	lodgingKind = localKind[records.Lodging]{
		kind:   records.KindAccommodations,
		list:   trailmap.Client.Lodgings,
		add:    trailmap.Client.AddLodging,
		update: trailmap.Client.UpdateLodging,
		remove: trailmap.Client.DeleteLodging,
		build:  normalize.Lodging,
	}
	attractionKind = localKind[records.Attraction]{
		kind:   records.KindAttractions,
		list:   trailmap.Client.Attractions,
		add:    trailmap.Client.AddAttraction,
		update: trailmap.Client.UpdateAttraction,
		remove: trailmap.Client.DeleteAttraction,
		build:  normalize.Attraction,
	}
)

// localList is the body of every local-kind endpoint.
type localList[T any] struct {
	Kind  records.Kind `json:"kind"`
	Items []T          `json:"items"`
	Count int          `json:"count"`
}

func (k localKind[T]) snapshot(tm trailmap.Client) localList[T] {
	items := k.list(tm)
	if items == nil {
		items = []T{}
	}
	return localList[T]{Kind: k.kind, Items: items, Count: len(items)}
}

func (k localKind[T]) handleList(h *Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tm, ok := h.client(w, r)
		if !ok {
			return
		}
		h.cached(w, string(k.kind), func() (any, error) {
			return k.snapshot(tm), nil
		})
	}
}

func (k localKind[T]) handleAdd(h *Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tm, ok := h.client(w, r)
		if !ok {
			return
		}
		item, err := k.decode(w, r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if _, err := k.add(tm, item); err != nil {
			h.fail(w, r, err)
			return
		}
		h.cache.Clear()
		response.Created(w, k.snapshot(tm))
	}
}

func (k localKind[T]) handleUpdate(h *Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tm, ok := h.client(w, r)
		if !ok {
			return
		}
		index, err := pathIndex(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		item, err := k.decode(w, r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if err := k.update(tm, index, item); err != nil {
			h.fail(w, r, err)
			return
		}
		h.cache.Clear()
		response.OK(w, k.snapshot(tm))
	}
}

func (k localKind[T]) handleDelete(h *Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tm, ok := h.client(w, r)
		if !ok {
			return
		}
		index, err := pathIndex(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if err := k.remove(tm, index); err != nil {
			h.fail(w, r, err)
			return
		}
		h.cache.Clear()
		response.OK(w, k.snapshot(tm))
	}
}

func (k localKind[T]) decode(w http.ResponseWriter, r *http.Request) (T, error) {
	var zero T
	row, err := decodeRow(w, r)
	if err != nil {
		return zero, err
	}
	item := k.build(row)
	if err := requireName(item.Label()); err != nil {
		return zero, err
	}
	return item, nil
}

// HandleListLodgings handles GET /accommodations.
func (h *Handlers) HandleListLodgings(w http.ResponseWriter, r *http.Request) {
	lodgingKind.handleList(h)(w, r)
}

// HandleAddLodging handles POST /accommodations.
func (h *Handlers) HandleAddLodging(w http.ResponseWriter, r *http.Request) {
	lodgingKind.handleAdd(h)(w, r)
}

// HandleUpdateLodging handles PUT /accommodations/{index}.
func (h *Handlers) HandleUpdateLodging(w http.ResponseWriter, r *http.Request) {
	lodgingKind.handleUpdate(h)(w, r)
}

// HandleDeleteLodging handles DELETE /accommodations/{index}.
func (h *Handlers) HandleDeleteLodging(w http.ResponseWriter, r *http.Request) {
	lodgingKind.handleDelete(h)(w, r)
}

// HandleListAttractions handles GET /attractions.
func (h *Handlers) HandleListAttractions(w http.ResponseWriter, r *http.Request) {
	attractionKind.handleList(h)(w, r)
}

// HandleAddAttraction handles POST /attractions.
func (h *Handlers) HandleAddAttraction(w http.ResponseWriter, r *http.Request) {
	attractionKind.handleAdd(h)(w, r)
}

// HandleUpdateAttraction handles PUT /attractions/{index}.
func (h *Handlers) HandleUpdateAttraction(w http.ResponseWriter, r *http.Request) {
	attractionKind.handleUpdate(h)(w, r)
}

// HandleDeleteAttraction handles DELETE /attractions/{index}.
func (h *Handlers) HandleDeleteAttraction(w http.ResponseWriter, r *http.Request) {
	attractionKind.handleDelete(h)(w, r)
}
