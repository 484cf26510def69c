package handlers

import (
	"net/http"

	"github.com/trailmap/trailmap"
	"github.com/trailmap/trailmap/internal/server/response"
	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/normalize"
	"github.com/trailmap/trailmap/pkg/records"
)

// hikeList is the body of GET /hikes and of successful hike mutations.
type hikeList struct {
	Hikes  []records.Indexed[records.Hike] `json:"hikes"`
	Count  int                             `json:"count"`
	Region string                          `json:"region,omitempty"`
	Source string                          `json:"source"`
	State  string                          `json:"state"`
}

// HandleListHikes handles GET /hikes[?region=]. It serves the hikes the
// client currently holds; POST /sync refreshes them.
func (h *Handlers) HandleListHikes(w http.ResponseWriter, r *http.Request) {
	tm, ok := h.client(w, r)
	if !ok {
		return
	}
	region := r.URL.Query().Get("region")

	h.cached(w, "hikes:"+region, func() (any, error) {
		list := records.InRegion(tm.Hikes(), region)
		return hikeList{
			Hikes:  list,
			Count:  len(list),
			Region: region,
			Source: tm.Source().String(),
			State:  tm.State().String(),
		}, nil
	})
}

// HandleRegions handles GET /regions.
func (h *Handlers) HandleRegions(w http.ResponseWriter, r *http.Request) {
	tm, ok := h.client(w, r)
	if !ok {
		return
	}
	h.cached(w, "regions", func() (any, error) {
		regions := tm.Regions()
		if regions == nil {
			regions = []string{}
		}
		return regions, nil
	})
}

// HandleAddHike handles POST /hikes. The new hike appears in the re-listed
// collection returned in the body.
func (h *Handlers) HandleAddHike(w http.ResponseWriter, r *http.Request) {
	tm, ok := h.client(w, r)
	if !ok {
		return
	}
	row, err := decodeRow(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	hike := normalize.Hike(row).WithoutID()
	if err := requireName(hike.Name); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := tm.AddHike(r.Context(), hike); err != nil {
		h.fail(w, r, err)
		return
	}
	h.cache.Clear()
	response.Created(w, h.currentHikes(tm))
}

// HandleUpdateHike handles PUT /hikes/{index}. The body replaces the hike.
// A position with no known server id answers 409 and changes nothing.
func (h *Handlers) HandleUpdateHike(w http.ResponseWriter, r *http.Request) {
	tm, ok := h.client(w, r)
	if !ok {
		return
	}
	index, err := pathIndex(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := tm.Hike(index); err != nil {
		h.fail(w, r, err)
		return
	}
	row, err := decodeRow(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	hike := normalize.Hike(row)
	if err := requireName(hike.Name); err != nil {
		h.fail(w, r, err)
		return
	}

	resolved, err := tm.UpdateHike(r.Context(), index, hike)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !resolved {
		h.fail(w, r, &errors.IdentityError{Index: index, Size: len(tm.Hikes())})
		return
	}
	h.cache.Clear()
	response.OK(w, h.currentHikes(tm))
}

// HandleDeleteHike handles DELETE /hikes/{index}.
func (h *Handlers) HandleDeleteHike(w http.ResponseWriter, r *http.Request) {
	tm, ok := h.client(w, r)
	if !ok {
		return
	}
	index, err := pathIndex(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := tm.Hike(index); err != nil {
		h.fail(w, r, err)
		return
	}

	resolved, err := tm.DeleteHike(r.Context(), index)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !resolved {
		h.fail(w, r, &errors.IdentityError{Index: index, Size: len(tm.Hikes())})
		return
	}
	h.cache.Clear()
	response.OK(w, h.currentHikes(tm))
}

// syncResult is the body of POST /sync.
type syncResult struct {
	Source  string `json:"source"`
	Count   int    `json:"count"`
	State   string `json:"state"`
	Backend string `json:"backend,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HandleSync handles POST /sync: a full refresh with fallbacks. It always
// answers 200; error carries the remote failure when a fallback was used.
func (h *Handlers) HandleSync(w http.ResponseWriter, r *http.Request) {
	tm, ok := h.client(w, r)
	if !ok {
		return
	}
	out := tm.Refresh(r.Context())
	h.cache.Clear()

	res := syncResult{
		Source:  out.Source.String(),
		Count:   out.Count,
		State:   tm.State().String(),
		Backend: tm.BackendURL(),
	}
	if out.Err != nil {
		res.Error = out.Err.Error()
	}
	response.OK(w, res)
}

// currentHikes lists the collection as it stands after a mutation.
func (h *Handlers) currentHikes(tm trailmap.Client) hikeList {
	list := records.InRegion(tm.Hikes(), "")
	return hikeList{
		Hikes:  list,
		Count:  len(list),
		Source: tm.Source().String(),
		State:  tm.State().String(),
	}
}
