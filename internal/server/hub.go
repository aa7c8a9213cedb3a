package server

import (
	"log/slog"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/vango-dev/groupkit/internal/config"
	kiterrors "github.com/vango-dev/groupkit/internal/errors"
	"github.com/vango-dev/groupkit/pkg/group"
	"github.com/vango-dev/groupkit/pkg/persist"
	"github.com/vango-dev/groupkit/pkg/telemetry"
)

// Hub holds the rooms of a server.
type Hub struct {
	rooms map[string]*Room
	names []string
	log   *slog.Logger
}

// HubOption configures a Hub.
type HubOption func(*roomDeps)

// WithHubLogger sets the logger of every room.
func WithHubLogger(logger *slog.Logger) HubOption {
	return func(d *roomDeps) {
		if logger != nil {
			d.log = logger
		}
	}
}

// WithStore persists every room to store.
func WithStore(store persist.Store) HubOption {
	return func(d *roomDeps) {
		d.store = store
	}
}

// WithTracer traces every room operation.
func WithTracer(t *telemetry.Tracer) HubOption {
	return func(d *roomDeps) {
		d.tracer = t
	}
}

// WithGroupObserver adds an observer to every group.
func WithGroupObserver(o group.Observer) HubOption {
	return func(d *roomDeps) {
		d.observers = append(d.observers, o)
	}
}

// NewHub creates one room per declared group.
func NewHub(groups []config.GroupConfig, opts ...HubOption) (*Hub, error) {
	deps := roomDeps{log: slog.Default()}
	for _, opt := range opts {
		opt(&deps)
	}
	deps.log = deps.log.With("component", "server")

	h := &Hub{rooms: make(map[string]*Room, len(groups)), log: deps.log}
	for _, gc := range groups {
		items := make([]any, len(gc.Items))
		for i, v := range gc.Items {
			items[i] = v
		}

		room, err := newRoom(gc.Name, gc.Rules(), items, gc.ModelValues(), deps)
		if err != nil {
			h.Close()
			return nil, err
		}
		h.rooms[gc.Name] = room
		h.names = append(h.names, gc.Name)
	}
	sort.Strings(h.names)
	return h, nil
}

// Room returns the room hosting name. Unknown names get a suggestion.
func (h *Hub) Room(name string) (*Room, error) {
	if r, ok := h.rooms[name]; ok {
		return r, nil
	}
	err := kiterrors.New("G040").WithDetailf("group %q", name)
	if s := closest(name, h.names); s != "" {
		err.WithSuggestion("did you mean " + s + "?")
	}
	return nil, err
}

// Names returns the hosted group names, sorted.
func (h *Hub) Names() []string {
	return append([]string(nil), h.names...)
}

// Close closes every room.
func (h *Hub) Close() {
	for _, r := range h.rooms {
		r.Close()
	}
}

// closest returns the candidate nearest to name, or "" when none is close.
func closest(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(name)/3) {
		return ""
	}
	return best
}
