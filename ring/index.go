package ring

// Index is the set of unsigned widths a buffer can use for its cursors.
// The width bounds the capacity: an uint8 buffer holds at most 255 elements.
type Index interface {
	~uint8 | ~uint16 | ~uint32
}

// next returns idx+1 wrapped to capacity without overflowing I.
func next[I Index](idx, capacity I) I {
	idx++
	if idx == capacity {
		return 0
	}
	return idx
}

// prev returns idx-1 wrapped to capacity without underflowing I.
func prev[I Index](idx, capacity I) I {
	if idx == 0 {
		return capacity - 1
	}
	return idx - 1
}
