package server

import (
	kiterrors "github.com/vango-dev/groupkit/internal/errors"
	"github.com/vango-dev/groupkit/pkg/group"
)

// ConfigView is the JSON form of group rules. Max is null without a limit.
type ConfigView struct {
	Multiple  bool `json:"multiple"`
	Mandatory bool `json:"mandatory"`
	Max       *int `json:"max"`
}

// ItemView is one registered item.
type ItemView struct {
	ID       uint64 `json:"id"`
	Value    any    `json:"value,omitempty"`
	Selected bool   `json:"selected"`
}

// GroupView is the full state of a group.
type GroupView struct {
	Name     string     `json:"name"`
	Config   ConfigView `json:"config"`
	Items    []ItemView `json:"items"`
	Model    []any      `json:"model"`
	Selected []uint64   `json:"selected"`
}

// Result is the answer to an operation.
type Result struct {
	Op      group.Op      `json:"op"`
	Outcome group.Outcome `json:"outcome"`
	Reason  group.Reason  `json:"reason,omitempty"`
	State   GroupView     `json:"state"`
}

// ConfigPatch changes only the rules it names. Unlimited removes the max
// limit and wins over Max.
type ConfigPatch struct {
	Multiple  *bool `json:"multiple,omitempty"`
	Mandatory *bool `json:"mandatory,omitempty"`
	Max       *int  `json:"max,omitempty"`
	Unlimited bool  `json:"unlimited,omitempty"`
}

func (p ConfigPatch) apply(c *group.Config) {
	if p.Multiple != nil {
		c.Multiple = *p.Multiple
	}
	if p.Mandatory != nil {
		c.Mandatory = *p.Mandatory
	}
	switch {
	case p.Unlimited:
		c.Max = nil
	case p.Max != nil:
		c.Max = group.Limit(*p.Max)
	}
}

// message is a WebSocket frame in either direction.
type message struct {
	Type     string              `json:"type,omitempty"`
	Group    string              `json:"group,omitempty"`
	State    *GroupView          `json:"state,omitempty"`
	Result   *Result             `json:"result,omitempty"`
	Model    []any               `json:"model,omitempty"`
	Selected []uint64            `json:"selected,omitempty"`
	Error    *kiterrors.KitError `json:"error,omitempty"`

	// Client requests.
	Op     string `json:"op,omitempty"`
	ID     uint64 `json:"id,omitempty"`
	N      int    `json:"n,omitempty"`
	Value  any    `json:"value,omitempty"`
	Values []any  `json:"values,omitempty"`
}

const (
	msgState     = "state"
	msgSelection = "selection"
	msgResult    = "result"
	msgError     = "error"
)

func viewOf(g *group.Group) GroupView {
	cfg := g.Config()
	entries := g.Items()
	selected := g.SelectedIDs()

	v := GroupView{
		Name:     g.Name(),
		Config:   ConfigView{Multiple: cfg.Multiple, Mandatory: cfg.Mandatory, Max: cfg.Max},
		Items:    make([]ItemView, 0, len(entries)),
		Model:    []any(g.Model()),
		Selected: idList(selected),
	}
	for _, e := range entries {
		v.Items = append(v.Items, ItemView{
			ID:       uint64(e.ID),
			Value:    e.Value,
			Selected: g.IsSelected(e.ID),
		})
	}
	return v
}

func idList(ids []group.ID) []uint64 {
	out := make([]uint64, len(ids))
	for i, id := range ids {
		out[i] = uint64(id)
	}
	return out
}
