package world

import "testing"

func TestAllocatorGrowsAndReuses(t *testing.T) {
	var a allocator
	x := a.alloc(18)
	y := a.alloc(4)
	z := a.alloc(6)
	if x != 0 || y != 18 || z != 22 || a.size != 28 {
		t.Fatalf("offsets %d %d %d size %d", x, y, z, a.size)
	}

	if !a.release(y, 4) {
		t.Fatal("release failed")
	}
	if got := a.alloc(4); got != 18 {
		t.Errorf("exact fit: got offset %d, want 18", got)
	}
	if a.size != 28 {
		t.Errorf("size changed to %d", a.size)
	}
}

func TestAllocatorSplitsLargestHole(t *testing.T) {
	var a allocator
	a.alloc(2)
	h1 := a.alloc(3)
	a.alloc(1)
	h2 := a.alloc(8)
	a.alloc(1)
	a.release(h1, 3)
	a.release(h2, 8)

	got := a.alloc(2)
	if got != h2 {
		t.Errorf("got offset %d, want %d", got, h2)
	}
	if got := a.alloc(6); got != h2+2 {
		t.Errorf("remainder: got offset %d, want %d", got, h2+2)
	}
}

func TestAllocatorCoalescesAndTrims(t *testing.T) {
	var a allocator
	x := a.alloc(4)
	y := a.alloc(4)
	z := a.alloc(4)

	a.release(y, 4)
	a.release(x, 4)
	if len(a.free) != 1 || a.free[0] != (span{off: 0, size: 8}) {
		t.Fatalf("free list %v", a.free)
	}

	a.release(z, 4)
	if a.size != 0 || len(a.free) != 0 {
		t.Errorf("size %d free %v, want empty", a.size, a.free)
	}
	if a.inUse() != 0 {
		t.Errorf("inUse = %d", a.inUse())
	}
}

func TestAllocatorReleaseUnknown(t *testing.T) {
	var a allocator
	a.alloc(3)
	tests := []struct {
		name      string
		off, size int
	}{
		{"wrong offset", 1, 3},
		{"wrong size", 0, 2},
		{"past end", 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if a.release(tt.off, tt.size) {
				t.Error("released a range that was never allocated")
			}
		})
	}
	if a.inUse() != 3 {
		t.Errorf("inUse = %d, want 3", a.inUse())
	}
}

func TestAllocatorZeroSize(t *testing.T) {
	var a allocator
	a.alloc(5)
	off := a.alloc(0)
	if off != 5 || a.size != 5 {
		t.Fatalf("offset %d size %d", off, a.size)
	}
	if !a.release(off, 0) {
		t.Error("zero-size release failed")
	}
}
