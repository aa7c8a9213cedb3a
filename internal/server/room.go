package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
	"github.com/vango-dev/groupkit/pkg/group"
	"github.com/vango-dev/groupkit/pkg/persist"
	"github.com/vango-dev/groupkit/pkg/reactive"
	"github.com/vango-dev/groupkit/pkg/telemetry"
)

// saveTimeout bounds one snapshot write.
const saveTimeout = 5 * time.Second

// ErrRoomClosed is returned by operations on a closed room.
var ErrRoomClosed error = kiterrors.New("G043")

// Room hosts one group. Every access to the group runs on the room's
// event loop.
type Room struct {
	name string
	log  *slog.Logger

	owner   *reactive.Owner
	group   *group.Group
	members map[group.ID]*reactive.Owner
	clients map[string]*client

	store  persist.Store
	tracer *telemetry.Tracer

	// stopChanges cancels the OnChange subscription that saves and broadcasts.
	stopChanges func()

	// last is the most recent group event, written by the group observer.
	last group.Event

	dispatchCh chan func()
	done       chan struct{}
	closeOnce  sync.Once
}

type roomDeps struct {
	log       *slog.Logger
	store     persist.Store
	tracer    *telemetry.Tracer
	observers []group.Observer
}

// newRoom builds the group, registers the declared items, restores the
// stored snapshot and starts the event loop.
func newRoom(name string, rules group.Config, items []any, model []any, deps roomDeps) (*Room, error) {
	r := &Room{
		name:       name,
		log:        deps.log.With("group", name),
		owner:      reactive.NewOwner(nil),
		members:    make(map[group.ID]*reactive.Owner),
		clients:    make(map[string]*client),
		store:      deps.store,
		tracer:     deps.tracer,
		dispatchCh: make(chan func(), 64),
		done:       make(chan struct{}),
	}

	opts := []group.Option{
		group.WithName(name),
		group.WithLogger(deps.log),
		group.WithModel(model...),
		group.WithOwner(r.owner),
		group.WithObserver(group.ObserverFunc(func(e group.Event) { r.last = e })),
	}
	for _, o := range deps.observers {
		opts = append(opts, group.WithObserver(o))
	}
	r.group = group.New(rules, opts...)

	for _, v := range items {
		if _, err := r.addItem(v); err != nil {
			r.owner.Dispose()
			return nil, err
		}
	}

	if r.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		restored, err := persist.LoadGroup(ctx, r.store, r.group)
		cancel()
		if err != nil {
			r.log.Warn("snapshot restore failed", "error", err)
		} else if restored {
			r.log.Info("snapshot restored", "model", r.group.Model())
		}
	}

	r.stopChanges = r.group.OnChange(r.onChange)

	go r.eventLoop()
	return r, nil
}

// Name returns the group name.
func (r *Room) Name() string {
	return r.name
}

// Dispatch runs fn on the event loop and waits for it to return.
func (r *Room) Dispatch(fn func()) error {
	select {
	case <-r.done:
		return ErrRoomClosed
	default:
	}

	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}

	select {
	case r.dispatchCh <- wrapped:
	case <-r.done:
		return ErrRoomClosed
	}

	select {
	case <-finished:
		return nil
	case <-r.done:
		return ErrRoomClosed
	}
}

// Close stops the event loop and disposes the group and its items.
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		// Dispose on the loop so no operation sees a half-torn group.
		_ = r.Dispatch(func() {
			for _, c := range r.clients {
				c.close()
			}
			r.clients = map[string]*client{}
			// Item disposal unregisters members one by one; none of those
			// transitions may overwrite the stored snapshot.
			r.stopChanges()
			r.owner.Dispose()
		})
		close(r.done)
	})
}

func (r *Room) eventLoop() {
	for {
		select {
		case fn := <-r.dispatchCh:
			r.executeDispatch(fn)
		case <-r.done:
			return
		}
	}
}

func (r *Room) executeDispatch(fn func()) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("dispatch panic", "panic", p, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

// State returns the current group state.
func (r *Room) State(ctx context.Context) (GroupView, error) {
	var v GroupView
	err := r.Dispatch(func() { v = viewOf(r.group) })
	return v, err
}

// AddItem registers a new item. A nil value registers the item by id.
func (r *Room) AddItem(ctx context.Context, value any) (ItemView, Result, error) {
	var item ItemView
	res, err := r.do(ctx, group.OpRegister, func() (group.Outcome, error) {
		id, err := r.addItem(value)
		if err != nil {
			return group.OutcomeRefused, err
		}
		item = ItemView{ID: uint64(id), Value: value, Selected: r.group.IsSelected(id)}
		return r.last.Outcome, nil
	})
	return item, res, err
}

// RemoveItem unregisters an item by disposing its host owner.
func (r *Room) RemoveItem(ctx context.Context, id group.ID) (Result, error) {
	return r.do(ctx, group.OpUnregister, func() (group.Outcome, error) {
		owner, ok := r.members[id]
		if !ok {
			return group.OutcomeRefused, unknownItem(id)
		}
		delete(r.members, id)
		owner.Dispose()
		return r.last.Outcome, nil
	})
}

// Toggle toggles a registered item.
func (r *Room) Toggle(ctx context.Context, id group.ID) (Result, error) {
	return r.do(ctx, group.OpToggle, func() (group.Outcome, error) {
		if _, ok := r.members[id]; !ok {
			return group.OutcomeRefused, unknownItem(id)
		}
		return r.group.Toggle(id), nil
	})
}

// Next selects the next item.
func (r *Room) Next(ctx context.Context) (Result, error) {
	return r.do(ctx, group.OpNext, func() (group.Outcome, error) {
		return r.group.Next(), nil
	})
}

// Prev selects the previous item.
func (r *Room) Prev(ctx context.Context) (Result, error) {
	return r.do(ctx, group.OpPrev, func() (group.Outcome, error) {
		return r.group.Prev(), nil
	})
}

// Step moves the selection by n items.
func (r *Room) Step(ctx context.Context, n int) (Result, error) {
	return r.do(ctx, group.OpStep, func() (group.Outcome, error) {
		return r.group.Step(n), nil
	})
}

// SetSelection assigns the model. ids are added as item ids.
func (r *Room) SetSelection(ctx context.Context, values []any, ids []uint64) (Result, error) {
	model := append([]any(nil), values...)
	for _, id := range ids {
		model = append(model, group.ID(id))
	}
	return r.do(ctx, group.OpSetModel, func() (group.Outcome, error) {
		return r.group.SetModel(model...), nil
	})
}

// Configure applies a rules patch.
func (r *Room) Configure(ctx context.Context, p ConfigPatch) (Result, error) {
	if p.Max != nil && *p.Max < 0 {
		return Result{}, kiterrors.New("G042").WithDetail("max must be >= 0")
	}
	return r.do(ctx, group.OpConfigure, func() (group.Outcome, error) {
		r.group.Configure(p.apply)
		return r.last.Outcome, nil
	})
}

// do runs fn on the event loop inside a span and returns the outcome with
// the resulting state.
func (r *Room) do(ctx context.Context, op group.Op, fn func() (group.Outcome, error)) (Result, error) {
	res := Result{Op: op}
	run := func(ctx context.Context) (group.Outcome, error) {
		var fnErr error
		err := r.Dispatch(func() {
			r.last = group.Event{}
			res.Outcome, fnErr = fn()
			if r.last.Op == op {
				res.Reason = r.last.Reason
			}
			res.State = viewOf(r.group)
		})
		if err != nil {
			return "", err
		}
		return res.Outcome, fnErr
	}

	var err error
	if r.tracer != nil {
		_, err = r.tracer.Trace(ctx, r.name, op, run)
	} else {
		_, err = run(ctx)
	}
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// addItem must run on the loop or before it starts.
func (r *Room) addItem(value any) (group.ID, error) {
	owner := reactive.NewOwner(r.owner)
	var opts []group.ItemOption
	if value != nil {
		opts = append(opts, group.WithValue(value))
	}
	item, err := group.NewItem(owner, r.group, opts...)
	if err != nil {
		owner.Dispose()
		return 0, err
	}
	r.members[item.ID()] = owner
	return item.ID(), nil
}

// onChange persists and broadcasts a new selection. It runs on the loop.
func (r *Room) onChange(model group.Model) {
	if r.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		if err := persist.SaveGroup(ctx, r.store, r.group); err != nil {
			r.log.Error("snapshot save failed", "error", err)
		}
		cancel()
	}

	r.broadcast(message{
		Type:     msgSelection,
		Group:    r.name,
		Model:    []any(model),
		Selected: idList(r.group.SelectedIDs()),
	})
}

// attach registers a client and sends it the current state.
func (r *Room) attach(c *client) error {
	return r.Dispatch(func() {
		r.clients[c.id] = c
		state := viewOf(r.group)
		c.enqueue(mustEncode(message{Type: msgState, Group: r.name, State: &state}))
		r.log.Debug("client attached", "client", c.id, "clients", len(r.clients))
	})
}

// detach removes a client.
func (r *Room) detach(c *client) {
	_ = r.Dispatch(func() {
		delete(r.clients, c.id)
		r.log.Debug("client detached", "client", c.id, "clients", len(r.clients))
	})
}

func (r *Room) broadcast(m message) {
	if len(r.clients) == 0 {
		return
	}
	data := mustEncode(m)
	for _, c := range r.clients {
		c.enqueue(data)
	}
}

func unknownItem(id group.ID) error {
	return kiterrors.New("G041").WithDetailf("item %d", uint64(id))
}

func mustEncode(m message) []byte {
	data, err := json.Marshal(m)
	if err != nil {
		// An item value JSON cannot encode becomes an error frame.
		data, _ = json.Marshal(message{Type: msgError, Group: m.Group, Error: kiterrors.New("G042").Wrap(err)})
	}
	return data
}
