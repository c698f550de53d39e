package linebuf

import (
	"fmt"
	"reflect"
	"testing"
)

func TestRingEviction(t *testing.T) {
	r := NewRing(3)
	for _, l := range []string{"1", "2", "3", "4"} {
		r.Push(l)
	}
	got := r.Lines()
	want := []string{"2", "3", "4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %v, want %v", got, want)
	}
}

func TestRingCapacityInvariant(t *testing.T) {
	const capacity = 5
	for k := 0; k <= 13; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			r := NewRing(capacity)
			var pushed []string
			for i := 0; i < k; i++ {
				line := fmt.Sprintf("line-%d", i)
				r.Push(line)
				pushed = append(pushed, line)
			}
			got := r.Lines()
			wantLen := min(k, capacity)
			if len(got) != wantLen {
				t.Fatalf("len = %d, want %d", len(got), wantLen)
			}
			if k > 0 && !reflect.DeepEqual(got, pushed[k-wantLen:]) {
				t.Errorf("Lines() = %v, want %v", got, pushed[k-wantLen:])
			}
		})
	}
}

func TestRingEmpty(t *testing.T) {
	r := NewRing(DefaultCapacity)
	if got := r.Lines(); len(got) != 0 {
		t.Errorf("expected empty ring, got %v", got)
	}
	if r.Cap() != DefaultCapacity {
		t.Errorf("Cap() = %d, want %d", r.Cap(), DefaultCapacity)
	}
}

func TestRingKeepsEmptyLines(t *testing.T) {
	r := NewRing(4)
	r.Push("")
	r.Push("x")
	r.Push("")
	want := []string{"", "x", ""}
	if got := r.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}

func TestRingLinesIsCopy(t *testing.T) {
	r := NewRing(2)
	r.Push("a")
	got := r.Lines()
	got[0] = "mutated"
	if r.Lines()[0] != "a" {
		t.Error("Lines() must not alias ring storage")
	}
}

func TestNewRingRejectsZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero capacity")
		}
	}()
	NewRing(0)
}
