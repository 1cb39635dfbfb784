package pagination

import (
	"encoding/json"
	"testing"
)

func TestBounds(t *testing.T) {
	cases := []struct {
		name       string
		q          ListQuery
		wantOffset int
		wantLimit  int
	}{
		{"defaults", ListQuery{}, 0, DefaultLimit},
		{"page math", ListQuery{Page: 3, Limit: 10}, 20, 10},
		{"explicit offset wins", ListQuery{Page: 3, Limit: 10, Offset: 5}, 5, 10},
		{"limit capped", ListQuery{Limit: 5000}, 0, MaxLimit},
		{"negative page coerced", ListQuery{Page: -1}, 0, DefaultLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			off, lim := tc.q.Bounds()
			if off != tc.wantOffset || lim != tc.wantLimit {
				t.Fatalf("Bounds() = (%d,%d), want (%d,%d)", off, lim, tc.wantOffset, tc.wantLimit)
			}
			if off < 0 || lim < 0 {
				t.Fatalf("bounds must be non-negative, got (%d,%d)", off, lim)
			}
		})
	}
}

func TestOrder(t *testing.T) {
	if (ListQuery{SortOrder: "asc"}).Order() != OrderAsc {
		t.Fatalf("asc must pass through")
	}
	if (ListQuery{}).Order() != OrderDesc {
		t.Fatalf("default order must be desc")
	}
	if (ListQuery{SortOrder: "bogus"}).Order() != OrderDesc {
		t.Fatalf("unknown order must fall back to desc")
	}
}

func TestNewPage_NeverNilItems(t *testing.T) {
	p := NewPage[string](nil, 0)
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"items":[],"total":0}` {
		t.Fatalf("unexpected JSON shape: %s", b)
	}
}
