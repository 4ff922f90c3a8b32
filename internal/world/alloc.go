package world

import "sort"

type span struct {
	off, size int
}

func (s span) end() int { return s.off + s.size }

// allocator hands out ranges of the packed state buffer. Freed ranges are kept
// sorted and coalesced; a request takes an exact-size free range when one
// exists, otherwise splits the largest free range that fits, otherwise grows
// the buffer. Live ranges never move.
type allocator struct {
	free []span
	used []span
	size int
}

func (a *allocator) alloc(n int) int {
	if n == 0 {
		a.used = append(a.used, span{off: a.size})
		return a.size
	}

	best := -1
	for i, s := range a.free {
		if s.size == n {
			best = i
			break
		}
		if s.size > n && (best < 0 || s.size > a.free[best].size) {
			best = i
		}
	}

	if best < 0 {
		off := a.size
		a.size += n
		a.used = append(a.used, span{off: off, size: n})
		return off
	}

	s := a.free[best]
	if s.size == n {
		a.free = append(a.free[:best], a.free[best+1:]...)
	} else {
		a.free[best] = span{off: s.off + n, size: s.size - n}
	}
	a.used = append(a.used, span{off: s.off, size: n})
	return s.off
}

// release frees the range starting at off. It reports false when no live range
// starts there.
func (a *allocator) release(off, size int) bool {
	idx := -1
	for i, s := range a.used {
		if s.off == off && s.size == size {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	a.used = append(a.used[:idx], a.used[idx+1:]...)
	if size == 0 {
		return true
	}

	a.free = append(a.free, span{off: off, size: size})
	sort.Slice(a.free, func(i, j int) bool { return a.free[i].off < a.free[j].off })

	merged := a.free[:1]
	for _, s := range a.free[1:] {
		last := &merged[len(merged)-1]
		if last.end() == s.off {
			last.size += s.size
			continue
		}
		merged = append(merged, s)
	}
	a.free = merged

	if n := len(a.free); n > 0 && a.free[n-1].end() == a.size {
		a.size = a.free[n-1].off
		a.free = a.free[:n-1]
	}
	return true
}

func (a *allocator) inUse() int {
	total := 0
	for _, s := range a.used {
		total += s.size
	}
	return total
}
