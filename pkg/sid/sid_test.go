package sid

import (
	"math"
	"testing"
)

func TestSortDescByScore(t *testing.T) {
	ids := []Sid{{ID: 1, Sc: 0.5}, {ID: 2, Sc: 0.9}, {ID: 3, Sc: 0.1}}
	SortDesc(ids)
	want := []uint64{2, 1, 3}
	for i, w := range want {
		if ids[i].ID != w {
			t.Fatalf("position %d: got id %d, want %d (%v)", i, ids[i].ID, w, ids)
		}
	}
}

func TestSortDescTieBreakByIDAscending(t *testing.T) {
	ids := []Sid{{ID: 5, Sc: 1.0}, {ID: 2, Sc: 1.0}, {ID: 9, Sc: 1.0}}
	SortDesc(ids)
	want := []uint64{2, 5, 9}
	for i, w := range want {
		if ids[i].ID != w {
			t.Fatalf("position %d: got id %d, want %d", i, ids[i].ID, w)
		}
	}
}

func TestSortDescNaNSinksToTail(t *testing.T) {
	nan := float32(math.NaN())
	ids := []Sid{{ID: 1, Sc: nan}, {ID: 2, Sc: 0.5}, {ID: 3, Sc: 1.0}}
	SortDesc(ids)
	if ids[len(ids)-1].ID != 1 {
		t.Fatalf("expected NaN id to sink to tail, got order %v", ids)
	}
	if ids[0].ID != 3 || ids[1].ID != 2 {
		t.Fatalf("unexpected ordering of non-NaN entries: %v", ids)
	}
}
