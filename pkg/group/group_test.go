package group

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// recorder collects OnChange notifications.
type recorder struct {
	models []Model
}

func (r *recorder) record(m Model) {
	r.models = append(r.models, m)
}

func newGroup(cfg Config, values []string, opts ...Option) *Group {
	g := New(cfg, opts...)
	for i, v := range values {
		g.Register(Entry{ID: ID(i + 1), Value: v})
	}
	return g
}

func assertModel(t *testing.T, got Model, want ...any) {
	t.Helper()
	if !sameModel(got, want) {
		t.Fatalf("model = %v, want %v", got, want)
	}
}

func assertNotifications(t *testing.T, r *recorder, want ...Model) {
	t.Helper()
	if len(r.models) != len(want) {
		t.Fatalf("notifications = %v, want %v", r.models, want)
	}
	for i := range want {
		if !sameModel(r.models[i], want[i]) {
			t.Fatalf("notification %d = %v, want %v", i, r.models[i], want[i])
		}
	}
}

func TestSingleSelectDefault(t *testing.T) {
	g := New(Config{Mandatory: true})
	r := &recorder{}
	g.OnChange(r.record)

	g.Register(Entry{ID: 1, Value: "one"})
	g.Register(Entry{ID: 2, Value: "two"})

	assertNotifications(t, r, Model{"one"})
	assertModel(t, g.Model(), "one")
	if !g.IsSelected(1) || g.IsSelected(2) {
		t.Errorf("selected ids = %v, want [1]", g.SelectedIDs())
	}
}

func TestSingleSelectToggleSwap(t *testing.T) {
	g := newGroup(Config{}, []string{"one", "two"}, WithModel("two"))
	r := &recorder{}
	g.OnChange(r.record)

	if out := g.Toggle(2); out != OutcomeApplied {
		t.Fatalf("Toggle(2) = %s, want applied", out)
	}
	if out := g.Toggle(1); out != OutcomeApplied {
		t.Fatalf("Toggle(1) = %s, want applied", out)
	}

	assertNotifications(t, r, Model{}, Model{"one"})
}

func TestMultipleSelectAccumulation(t *testing.T) {
	g := newGroup(Config{Multiple: true}, []string{"one", "two"})
	r := &recorder{}
	g.OnChange(r.record)

	g.Toggle(2)
	g.Toggle(1)

	assertNotifications(t, r, Model{"two"}, Model{"one", "two"})

	g.Toggle(2)
	assertModel(t, g.Model(), "one")
}

func TestMandatoryBlocksEmptying(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"single", Config{Mandatory: true}},
		{"multiple", Config{Mandatory: true, Multiple: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGroup(tt.cfg, []string{"one", "two"}, WithModel("one"))
			r := &recorder{}
			g.OnChange(r.record)

			if out := g.Toggle(1); out != OutcomeRefused {
				t.Fatalf("Toggle(1) = %s, want refused", out)
			}
			assertNotifications(t, r)
			assertModel(t, g.Model(), "one")
		})
	}
}

func TestMaxEnforcement(t *testing.T) {
	var events []Event
	g := newGroup(Config{Multiple: true, Max: Limit(1)}, []string{"one", "two"},
		WithObserver(ObserverFunc(func(e Event) { events = append(events, e) })))
	r := &recorder{}
	g.OnChange(r.record)
	events = nil

	g.Toggle(1)
	if out := g.Toggle(2); out != OutcomeRefused {
		t.Fatalf("Toggle(2) = %s, want refused", out)
	}

	assertNotifications(t, r, Model{"one"})
	last := events[len(events)-1]
	if last.Reason != ReasonMax || last.Outcome != OutcomeRefused {
		t.Errorf("last event = %+v, want refused for max", last)
	}
}

func TestMaxZeroRefusesAdditions(t *testing.T) {
	g := newGroup(Config{Multiple: true, Max: Limit(0)}, []string{"one", "two"})

	if out := g.Toggle(1); out != OutcomeRefused {
		t.Errorf("Toggle(1) with max 0 = %s, want refused", out)
	}
	assertModel(t, g.Model())

	g.Configure(func(c *Config) { c.Max = nil })
	if out := g.Toggle(1); out != OutcomeApplied {
		t.Errorf("Toggle(1) without max = %s, want applied", out)
	}
	if out := g.Toggle(2); out != OutcomeApplied {
		t.Errorf("Toggle(2) without max = %s, want applied", out)
	}
	assertModel(t, g.Model(), "one", "two")
}

func TestConfigLimitIsCopied(t *testing.T) {
	g := newGroup(Config{Multiple: true, Max: Limit(1)}, []string{"one", "two"})

	cfg := g.Config()
	*cfg.Max = 5
	if got := *g.Config().Max; got != 1 {
		t.Errorf("Max after mutating a returned config = %d, want 1", got)
	}
}

func TestMaxNotRetroactive(t *testing.T) {
	g := newGroup(Config{Multiple: true, Max: Limit(1)}, []string{"one", "two", "three"})

	if out := g.SetModel("one", "two"); out != OutcomeApplied {
		t.Fatalf("SetModel = %s, want applied", out)
	}
	assertModel(t, g.Model(), "one", "two")

	if out := g.Toggle(3); out != OutcomeRefused {
		t.Errorf("adding over max = %s, want refused", out)
	}
	if out := g.Toggle(1); out != OutcomeApplied {
		t.Errorf("removing over max = %s, want applied", out)
	}
	assertModel(t, g.Model(), "two")
}

func TestUnregister(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		model    []any
		remove   ID
		want     Model
		wantSize int
	}{
		{
			name:     "mandatory falls back to last remaining",
			cfg:      Config{Mandatory: true},
			model:    []any{"one"},
			remove:   1,
			want:     Model{"three"},
			wantSize: 2,
		},
		{
			name:     "mandatory middle item",
			cfg:      Config{Mandatory: true},
			model:    []any{"two"},
			remove:   2,
			want:     Model{"three"},
			wantSize: 2,
		},
		{
			name:     "unselected item keeps selection",
			cfg:      Config{Mandatory: true},
			model:    []any{"two"},
			remove:   3,
			want:     Model{"two"},
			wantSize: 2,
		},
		{
			name:     "optional group clears",
			cfg:      Config{},
			model:    []any{"one"},
			remove:   1,
			want:     Model{},
			wantSize: 2,
		},
		{
			name:     "multiple keeps others",
			cfg:      Config{Multiple: true, Mandatory: true},
			model:    []any{"one", "three"},
			remove:   1,
			want:     Model{"three"},
			wantSize: 2,
		},
		{
			name:     "unknown id",
			cfg:      Config{},
			model:    []any{"one"},
			remove:   9,
			want:     Model{"one"},
			wantSize: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGroup(tt.cfg, []string{"one", "two", "three"})
			g.SetModel(tt.model...)
			g.Unregister(tt.remove)

			assertModel(t, g.Model(), tt.want...)
			if len(g.Items()) != tt.wantSize {
				t.Errorf("items = %d, want %d", len(g.Items()), tt.wantSize)
			}
			if g.IsSelected(tt.remove) {
				t.Errorf("removed id %d is still selected", tt.remove)
			}
		})
	}
}

func TestUnregisterNotifiesOnce(t *testing.T) {
	g := newGroup(Config{Mandatory: true}, []string{"one", "two"})
	r := &recorder{}
	g.OnChange(r.record)

	g.Unregister(1)

	assertNotifications(t, r, Model{"two"})
}

func TestUnregisterLastItemEmptiesMandatory(t *testing.T) {
	g := newGroup(Config{Mandatory: true}, []string{"one"})
	g.Unregister(1)

	assertModel(t, g.Model())
	if len(g.Items()) != 0 {
		t.Errorf("items = %v, want none", g.Items())
	}
}

func TestNavigation(t *testing.T) {
	g := newGroup(Config{}, []string{"a", "b", "c"})

	g.Next()
	assertModel(t, g.Model(), "a")

	g.Toggle(3)
	g.Next()
	assertModel(t, g.Model(), "a")

	g.Prev()
	assertModel(t, g.Model(), "c")

	g.Step(2)
	assertModel(t, g.Model(), "b")

	g.Step(-4)
	assertModel(t, g.Model(), "a")

	if out := g.Step(3); out != OutcomeUnchanged {
		t.Errorf("full lap = %s, want unchanged", out)
	}
}

func TestNavigationEmptyGroup(t *testing.T) {
	g := New(Config{Mandatory: true})
	for _, nav := range []func() Outcome{g.Next, g.Prev, func() Outcome { return g.Step(2) }} {
		if out := nav(); out != OutcomeRefused {
			t.Errorf("navigation on empty group = %s, want refused", out)
		}
	}
	assertModel(t, g.Model())
}

func TestNavigationInMultipleWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var reasons []Reason
	g := newGroup(Config{Multiple: true}, []string{"one", "two", "three"},
		WithLogger(logger),
		WithModel("one", "three"),
		WithObserver(ObserverFunc(func(e Event) { reasons = append(reasons, e.Reason) })))

	g.Next()

	assertModel(t, g.Model(), "two")
	if !strings.Contains(buf.String(), "navigation is not supported in multiple mode") {
		t.Errorf("expected warning, log was %q", buf.String())
	}
	if reasons[len(reasons)-1] != ReasonNavigationInMultiple {
		t.Errorf("reason = %q, want %q", reasons[len(reasons)-1], ReasonNavigationInMultiple)
	}
}

func TestSetModel(t *testing.T) {
	t.Run("refused when nothing matches in a mandatory group", func(t *testing.T) {
		g := newGroup(Config{Mandatory: true}, []string{"one", "two"})
		if out := g.SetModel("zzz"); out != OutcomeRefused {
			t.Fatalf("SetModel = %s, want refused", out)
		}
		if out := g.SetModel(); out != OutcomeRefused {
			t.Fatalf("SetModel() = %s, want refused", out)
		}
		assertModel(t, g.Model(), "one")

		g.SetModel("two")
		assertModel(t, g.Model(), "two")
	})

	t.Run("single keeps the first value", func(t *testing.T) {
		g := newGroup(Config{}, []string{"one", "two"})
		g.SetModel("two", "one")
		assertModel(t, g.Model(), "two")
	})

	t.Run("optional group clears", func(t *testing.T) {
		g := newGroup(Config{}, []string{"one"}, WithModel("one"))
		g.SetModel()
		assertModel(t, g.Model())
	})

	t.Run("values resolve when items register later", func(t *testing.T) {
		g := New(Config{}, WithModel("two"))
		g.Register(Entry{ID: 1, Value: "one"})
		g.Register(Entry{ID: 2, Value: "two"})
		assertModel(t, g.Model(), "two")
	})
}

func TestOnChangeDeduplicates(t *testing.T) {
	g := newGroup(Config{}, []string{"one", "two"})
	r := &recorder{}
	cancel := g.OnChange(r.record)

	g.SetModel("one")
	if out := g.SetModel("one"); out != OutcomeUnchanged {
		t.Errorf("repeat SetModel = %s, want unchanged", out)
	}
	assertNotifications(t, r, Model{"one"})

	cancel()
	g.SetModel("two")
	assertNotifications(t, r, Model{"one"})
}

func TestConfigIsLive(t *testing.T) {
	g := newGroup(Config{}, []string{"one", "two"})
	g.Toggle(1)
	g.Toggle(2)
	assertModel(t, g.Model(), "two")

	g.SetConfig(Config{Multiple: true})
	g.Toggle(1)
	assertModel(t, g.Model(), "one", "two")

	g.Configure(func(c *Config) { c.Multiple = false })
	assertModel(t, g.Model(), "one")
	if ids := g.SelectedIDs(); len(ids) != 1 {
		t.Errorf("single group reads %v, want one id", ids)
	}
}

func TestToggleUnknownItem(t *testing.T) {
	g := newGroup(Config{Multiple: true}, []string{"one"})
	if out := g.Toggle(42); out != OutcomeRefused {
		t.Errorf("Toggle(42) = %s, want refused", out)
	}
	assertModel(t, g.Model())
}

func TestObserverEvents(t *testing.T) {
	var events []Event
	g := New(Config{Mandatory: true}, WithName("tabs"),
		WithObserver(ObserverFunc(func(e Event) { events = append(events, e) })))

	g.Register(Entry{ID: 1, Value: "one"})
	g.Register(Entry{ID: 2, Value: "two"})
	g.Toggle(2)
	g.Toggle(2)

	want := []struct {
		op      Op
		outcome Outcome
		reason  Reason
	}{
		{OpRegister, OutcomeApplied, ReasonNone},
		{OpRegister, OutcomeApplied, ReasonNone},
		{OpToggle, OutcomeApplied, ReasonNone},
		{OpToggle, OutcomeRefused, ReasonMandatory},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, w := range want {
		e := events[i]
		if e.Group != "tabs" || e.Op != w.op || e.Outcome != w.outcome || e.Reason != w.reason {
			t.Errorf("event %d = %+v, want %v/%v/%v", i, e, w.op, w.outcome, w.reason)
		}
	}
	if last := events[3]; last.Registered != 2 || last.Selected != 1 {
		t.Errorf("counts = %d/%d, want 2/1", last.Registered, last.Selected)
	}
}

func TestDisposeStopsNotifications(t *testing.T) {
	g := newGroup(Config{}, []string{"one"})
	r := &recorder{}
	g.OnChange(r.record)

	g.Dispose()
	g.Toggle(1)

	assertNotifications(t, r)
	assertModel(t, g.Model(), "one")
}

func TestMandatoryRegisterOverridesUnresolvedModel(t *testing.T) {
	g := New(Config{Mandatory: true}, WithModel("two"))
	g.Register(Entry{ID: 1, Value: "one"})
	g.Register(Entry{ID: 2, Value: "two"})

	assertModel(t, g.Model(), "one")
}
