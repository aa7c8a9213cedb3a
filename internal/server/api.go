package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
	"github.com/vango-dev/groupkit/pkg/group"
)

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20

// groupRoutes mounts the /groups API on r.
func (s *Server) groupRoutes(r chi.Router) {
	r.Get("/", s.listGroups)

	r.Route("/{name}", func(r chi.Router) {
		r.Get("/", s.getGroup)
		r.Post("/items", s.addItem)
		r.Delete("/items/{id}", s.removeItem)
		r.Post("/items/{id}/toggle", s.toggleItem)
		r.Post("/next", s.next)
		r.Post("/prev", s.prev)
		r.Post("/step", s.step)
		r.Put("/selection", s.setSelection)
		r.Patch("/config", s.configure)
		r.Get("/ws", s.serveWS)
	})
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	names := s.hub.Names()
	views := make([]GroupView, 0, len(names))
	for _, name := range names {
		room, err := s.hub.Room(name)
		if err != nil {
			continue
		}
		v, err := room.State(r.Context())
		if err != nil {
			continue
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": views})
}

func (s *Server) getGroup(w http.ResponseWriter, r *http.Request) {
	room, ok := s.room(w, r)
	if !ok {
		return
	}
	v, err := room.State(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type addItemRequest struct {
	Value any `json:"value"`
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	room, ok := s.room(w, r)
	if !ok {
		return
	}
	var req addItemRequest
	if err := decodeBody(r, &req, true); err != nil {
		writeError(w, err)
		return
	}
	item, res, err := room.AddItem(r.Context(), req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"item": item, "result": res})
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	s.withItem(w, r, func(room *Room, id group.ID) (Result, error) {
		return room.RemoveItem(r.Context(), id)
	})
}

func (s *Server) toggleItem(w http.ResponseWriter, r *http.Request) {
	s.withItem(w, r, func(room *Room, id group.ID) (Result, error) {
		return room.Toggle(r.Context(), id)
	})
}

func (s *Server) next(w http.ResponseWriter, r *http.Request) {
	s.withRoom(w, r, func(room *Room) (Result, error) {
		return room.Next(r.Context())
	})
}

func (s *Server) prev(w http.ResponseWriter, r *http.Request) {
	s.withRoom(w, r, func(room *Room) (Result, error) {
		return room.Prev(r.Context())
	})
}

func (s *Server) step(w http.ResponseWriter, r *http.Request) {
	s.withRoom(w, r, func(room *Room) (Result, error) {
		raw := r.URL.Query().Get("n")
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Result{}, kiterrors.New("G042").WithDetailf("n=%q is not an integer", raw)
		}
		return room.Step(r.Context(), n)
	})
}

type selectionRequest struct {
	Values []any    `json:"values"`
	IDs    []uint64 `json:"ids"`
}

func (s *Server) setSelection(w http.ResponseWriter, r *http.Request) {
	s.withRoom(w, r, func(room *Room) (Result, error) {
		var req selectionRequest
		if err := decodeBody(r, &req, false); err != nil {
			return Result{}, err
		}
		return room.SetSelection(r.Context(), req.Values, req.IDs)
	})
}

func (s *Server) configure(w http.ResponseWriter, r *http.Request) {
	s.withRoom(w, r, func(room *Room) (Result, error) {
		var p ConfigPatch
		if err := decodeBody(r, &p, false); err != nil {
			return Result{}, err
		}
		return room.Configure(r.Context(), p)
	})
}

// room resolves {name} and writes a 404 when it is unknown.
func (s *Server) room(w http.ResponseWriter, r *http.Request) (*Room, bool) {
	room, err := s.hub.Room(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return room, true
}

func (s *Server) withRoom(w http.ResponseWriter, r *http.Request, fn func(*Room) (Result, error)) {
	room, ok := s.room(w, r)
	if !ok {
		return
	}
	res, err := fn(room)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) withItem(w http.ResponseWriter, r *http.Request, fn func(*Room, group.ID) (Result, error)) {
	s.withRoom(w, r, func(room *Room) (Result, error) {
		raw := chi.URLParam(r, "id")
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Result{}, kiterrors.New("G042").WithDetailf("item id %q is not a number", raw)
		}
		return fn(room, group.ID(id))
	})
}

// decodeBody decodes a JSON body into v. An empty body is accepted when
// optional is set.
func decodeBody(r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) && optional {
			return nil
		}
		return kiterrors.New("G042").WithDetail("invalid JSON body").Wrap(err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	ke := kiterrors.FromError(err, "G042")
	writeJSON(w, statusFor(ke.Code), map[string]any{"error": ke})
}

func statusFor(code string) int {
	switch code {
	case "G040", "G041":
		return http.StatusNotFound
	case "G042", "G003":
		return http.StatusBadRequest
	case "G043":
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
