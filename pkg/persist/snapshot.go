package persist

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/fxamacker/cbor/v2"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
	"github.com/vango-dev/groupkit/pkg/group"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// Snapshot is a saved group selection.
type Snapshot struct {
	Version  int       `cbor:"1,keyasint"`
	Group    string    `cbor:"2,keyasint"`
	Multiple bool      `cbor:"3,keyasint"`
	Values   []any     `cbor:"4,keyasint"`
	SavedAt  time.Time `cbor:"5,keyasint"`
}

var (
	snapshotEncMode cbor.EncMode
	snapshotDecMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	snapshotEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
		IntDec:    cbor.IntDecConvertSigned,
	}
	snapshotDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR decoder mode: %v", err))
	}
}

// Encode serializes a snapshot.
func Encode(s *Snapshot) ([]byte, error) {
	data, err := snapshotEncMode.Marshal(s)
	if err != nil {
		return nil, kiterrors.New("G020").WithDetail("encode").Wrap(err)
	}
	return data, nil
}

// Decode parses a snapshot. Integers decode as int64.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := snapshotDecMode.Unmarshal(data, &s); err != nil {
		return nil, kiterrors.New("G020").WithDetail("decode").Wrap(err)
	}
	if s.Version > SnapshotVersion {
		return nil, kiterrors.New("G020").WithDetailf("unsupported snapshot version %d", s.Version)
	}
	return &s, nil
}

// Capture records the current selection of g. Values that are bare item ids
// are skipped because ids do not survive a restart.
func Capture(g *group.Group) *Snapshot {
	s := &Snapshot{
		Version:  SnapshotVersion,
		Group:    g.Name(),
		Multiple: g.Config().Multiple,
		Values:   []any{},
		SavedAt:  time.Now().UTC(),
	}
	for _, v := range g.Model() {
		if _, isID := v.(group.ID); isID {
			continue
		}
		s.Values = append(s.Values, v)
	}
	return s
}

// Restore assigns the snapshot values to g through SetModel. Decoded numbers
// are matched to item values of any integer or float type.
func Restore(g *group.Group, s *Snapshot) group.Outcome {
	if s == nil {
		return group.OutcomeUnchanged
	}
	items := g.Items()
	values := make([]any, 0, len(s.Values))
	for _, v := range s.Values {
		values = append(values, resolveValue(items, v))
	}
	return g.SetModel(values...)
}

// SaveGroup captures g and stores it under the group name.
func SaveGroup(ctx context.Context, store Store, g *group.Group) error {
	data, err := Encode(Capture(g))
	if err != nil {
		return err
	}
	return store.Save(ctx, g.Name(), data)
}

// LoadGroup restores g from the snapshot stored under its name. It reports
// false when no snapshot exists.
func LoadGroup(ctx context.Context, store Store, g *group.Group) (bool, error) {
	data, err := store.Load(ctx, g.Name())
	if err != nil || data == nil {
		return false, err
	}
	s, err := Decode(data)
	if err != nil {
		return false, err
	}
	Restore(g, s)
	return true, nil
}

// resolveValue returns the item value numerically equal to v, or v itself.
func resolveValue(items []group.Entry, v any) any {
	n, ok := toFloat(v)
	if !ok {
		return v
	}
	for _, item := range items {
		if m, ok := toFloat(item.Value); ok && m == n {
			return item.Value
		}
	}
	return v
}

func toFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if _, isID := v.(group.ID); isID {
			return 0, false
		}
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
