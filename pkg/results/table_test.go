package results

import (
	"errors"
	"testing"

	"github.com/vanderheijden86/panes/pkg/workerpool"
	"pgregory.net/rapid"
)

func TestCounterMonotonic(t *testing.T) {
	var c Counter
	if c.Last() != 0 {
		t.Fatalf("Last() on fresh counter = %d", c.Last())
	}
	prev := ID(0)
	for i := 0; i < 1000; i++ {
		id := c.Next()
		if id <= prev {
			t.Fatalf("id %d not greater than %d", id, prev)
		}
		prev = id
	}
	if c.Last() != prev {
		t.Errorf("Last() = %d, want %d", c.Last(), prev)
	}
}

func TestTryTakeConsumesOnce(t *testing.T) {
	tbl := NewTable[string]()
	tbl.Insert(1, workerpool.Resolved("a", nil))

	v, err, ok := tbl.TryTake(1)
	if !ok || err != nil || v != "a" {
		t.Fatalf("TryTake = %q, %v, %v", v, err, ok)
	}
	if _, _, ok := tbl.TryTake(1); ok {
		t.Error("second TryTake should report absent")
	}
	if tbl.Len() != 0 {
		t.Errorf("Len = %d, want 0", tbl.Len())
	}
}

func TestTryTakeCarriesError(t *testing.T) {
	tbl := NewTable[int]()
	boom := errors.New("boom")
	tbl.Insert(5, workerpool.Resolved(0, boom))

	_, err, ok := tbl.TryTake(5)
	if !ok || !errors.Is(err, boom) {
		t.Errorf("TryTake = %v, %v", err, ok)
	}
}

func TestClearDropsEverything(t *testing.T) {
	tbl := NewTable[int]()
	var c Counter
	ids := make([]ID, 0, 10)
	for i := 0; i < 10; i++ {
		id := c.Next()
		ids = append(ids, id)
		tbl.Insert(id, workerpool.Resolved(i, nil))
	}

	if n := tbl.Clear(); n != 10 {
		t.Errorf("Clear() = %d, want 10", n)
	}
	for _, id := range ids {
		if tbl.Has(id) {
			t.Errorf("id %d survived Clear", id)
		}
		if _, _, ok := tbl.TryTake(id); ok {
			t.Errorf("late TryTake(%d) found an entry", id)
		}
	}
}

func TestZeroTableUsable(t *testing.T) {
	var tbl Table[int]
	if _, _, ok := tbl.TryTake(1); ok {
		t.Error("zero table should be empty")
	}
	tbl.Insert(1, workerpool.Resolved(3, nil))
	if !tbl.Has(1) {
		t.Error("Insert on zero table lost the entry")
	}
}

// Any interleaving of inserts, takes and clears leaves each id taken at
// most once.
func TestTableTakeAtMostOnce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tbl := NewTable[ID]()
		var c Counter
		taken := map[ID]int{}
		var issued []ID

		n := rapid.IntRange(1, 100).Draw(t, "ops")
		for i := 0; i < n; i++ {
			switch rapid.IntRange(0, 4).Draw(t, "op") {
			case 0, 1:
				id := c.Next()
				issued = append(issued, id)
				tbl.Insert(id, workerpool.Resolved(id, nil))
			case 2, 3:
				if len(issued) == 0 {
					continue
				}
				id := issued[rapid.IntRange(0, len(issued)-1).Draw(t, "idx")]
				if v, _, ok := tbl.TryTake(id); ok {
					if v != id {
						t.Fatalf("TryTake(%d) returned value for %d", id, v)
					}
					taken[id]++
				}
			case 4:
				tbl.Clear()
			}
		}
		for id, count := range taken {
			if count > 1 {
				t.Fatalf("id %d taken %d times", id, count)
			}
		}
	})
}
