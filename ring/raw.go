package ring

// Raw is a ring buffer without occupancy tracking.
// Writes always overwrite the slot at the write index, reads always return
// the slot at the read index, even when it holds no unread data.
type Raw[T any, I Index] struct {
	storage []T

	capacity I
	writeIdx I
	readIdx  I
}

// NewRaw returns an unprotected buffer with the default single byte index width.
func NewRaw[T any](storage []T, elements uint8) (*Raw[T, uint8], error) {
	return NewRawWithIndex(storage, elements)
}

// NewRawWithIndex returns an unprotected buffer with the index width I.
func NewRawWithIndex[T any, I Index](storage []T, elements I) (*Raw[T, I], error) {
	r := &Raw[T, I]{}
	if err := r.Init(storage, elements); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNewRaw is like NewRaw but panics on an invalid capacity.
func MustNewRaw[T any](storage []T, elements uint8) *Raw[T, uint8] {
	r, err := NewRaw(storage, elements)
	if err != nil {
		panic(err)
	}
	return r
}

// Init binds r to the first elements slots of storage and resets both cursors.
func (r *Raw[T, I]) Init(storage []T, elements I) error {
	if err := checkCapacity(len(storage), elements); err != nil {
		return err
	}

	r.storage = storage[:elements:elements]
	r.capacity = elements
	r.Reset()

	return nil
}

// Write stores item at the write index, advances it and returns the new write index.
func (r *Raw[T, I]) Write(item T) I {
	r.storage[r.writeIdx] = item
	r.writeIdx = next(r.writeIdx, r.capacity)
	return r.writeIdx
}

// Read returns the item at the read index and advances it.
func (r *Raw[T, I]) Read() T {
	return *r.ReadRef()
}

// ReadRef returns a pointer to the slot at the read index and advances it.
func (r *Raw[T, I]) ReadRef() *T {
	item := &r.storage[r.readIdx]
	r.readIdx = next(r.readIdx, r.capacity)
	return item
}

func (r *Raw[T, I]) Cap() I {
	return r.capacity
}

func (r *Raw[T, I]) WriteIndex() I {
	return r.writeIdx
}

func (r *Raw[T, I]) ReadIndex() I {
	return r.readIdx
}

// Reset moves both cursors back to the start.
func (r *Raw[T, I]) Reset() {
	r.writeIdx = 0
	r.readIdx = 0
}
