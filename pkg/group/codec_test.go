package group

import "testing"

func equalIDs(a, b []ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCodecRoundTrip(t *testing.T) {
	items := []Entry{
		{ID: 10, Value: "a"},
		{ID: 11, Value: 2},
		{ID: 12, Value: "c"},
		{ID: 13, Value: true},
	}

	for mask := 0; mask < 1<<len(items); mask++ {
		var ids []ID
		for i, item := range items {
			if mask&(1<<i) != 0 {
				ids = append(ids, item.ID)
			}
		}

		got := IDsFromModel(items, ModelFromIDs(items, ids, true))
		if !equalIDs(got, ids) {
			t.Errorf("round trip of %v = %v", ids, got)
		}
	}
}

func TestIDsFromModel(t *testing.T) {
	items := []Entry{
		{ID: 1, Value: "one"},
		{ID: 2},
		{ID: 3, Value: "three"},
	}

	tests := []struct {
		name  string
		model Model
		want  []ID
	}{
		{"by value", Model{"three", "one"}, []ID{1, 3}},
		{"by id", Model{ID(2)}, []ID{2}},
		{"id of valued item", Model{ID(3)}, []ID{3}},
		{"unknown values", Model{"zzz", 7}, nil},
		{"uncomparable value", Model{[]int{1}}, nil},
		{"empty", Model{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IDsFromModel(items, tt.model); !equalIDs(got, tt.want) {
				t.Errorf("IDsFromModel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModelFromIDs(t *testing.T) {
	items := []Entry{
		{ID: 1, Value: "one"},
		{ID: 2},
		{ID: 3, Value: "three"},
	}

	got := ModelFromIDs(items, []ID{3, 2, 1}, true)
	if !sameModel(got, Model{"one", ID(2), "three"}) {
		t.Errorf("multiple projection = %v", got)
	}

	got = ModelFromIDs(items, []ID{3, 2}, false)
	if !sameModel(got, Model{ID(2)}) {
		t.Errorf("single projection = %v", got)
	}

	got = ModelFromIDs(items, []ID{99}, true)
	if got == nil || len(got) != 0 {
		t.Errorf("unknown ids = %#v, want empty model", got)
	}
}

func TestModelHelpers(t *testing.T) {
	m := Model{"a", 1}
	if m.First() != "a" {
		t.Errorf("First = %v", m.First())
	}
	if (Model{}).First() != nil {
		t.Error("First of empty model should be nil")
	}
	if !m.Contains(1) || m.Contains(int64(1)) {
		t.Error("Contains should compare type and value")
	}

	c := m.Clone()
	c[0] = "z"
	if m[0] != "a" {
		t.Error("Clone shares backing array")
	}
}
