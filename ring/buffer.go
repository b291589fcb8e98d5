// Package ring implements a fixed-capacity circular buffer over a caller-owned
// backing slice. The buffer never allocates, grows or copies its storage: it
// only tracks the read and write cursors over the slice it was given.
//
// Two types share the same wraparound arithmetic:
//
//   - Buffer tracks full/empty state and refuses writes that would overwrite
//     unread data and reads that would return stale data.
//   - Raw does plain cursor arithmetic and never checks occupancy. Callers that
//     track occupancy on their own can use it to skip the bookkeeping.
//
// Neither type is safe for concurrent use. A producer and a consumer running on
// different goroutines must serialize their calls externally.
package ring

// State is the occupancy state of a protected buffer.
type State uint8

const (
	StateEmpty State = iota
	StateNormal
	StateFull
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateNormal:
		return "normal"
	case StateFull:
		return "full"
	default:
		return "unknown"
	}
}

// WriteResult is the outcome of TryWrite.
type WriteResult[I Index] struct {
	// Index is the new write index when Written is true,
	// otherwise the index of the last written slot.
	Index   I
	Written bool
}

// Buffer is a ring buffer with protected writes and reads.
//
// A zero Buffer is not usable, it must be initialized with Init or created
// with New or NewWithIndex.
type Buffer[T any, I Index] struct {
	storage []T

	capacity I
	writeIdx I
	readIdx  I

	// full and empty disambiguate writeIdx == readIdx
	full  bool
	empty bool

	// hasRead states whether the slot before readIdx holds a returned item.
	hasRead bool
}

// New returns a buffer with the default single byte index width,
// bound to the first elements slots of storage.
func New[T any](storage []T, elements uint8) (*Buffer[T, uint8], error) {
	return NewWithIndex(storage, elements)
}

// NewWithIndex returns a buffer with the index width I,
// bound to the first elements slots of storage.
func NewWithIndex[T any, I Index](storage []T, elements I) (*Buffer[T, I], error) {
	b := &Buffer[T, I]{}
	if err := b.Init(storage, elements); err != nil {
		return nil, err
	}
	return b, nil
}

// MustNew is like New but panics on an invalid capacity.
func MustNew[T any](storage []T, elements uint8) *Buffer[T, uint8] {
	b, err := New(storage, elements)
	if err != nil {
		panic(err)
	}
	return b
}

// Init binds b to the first elements slots of storage and resets it to the
// empty state. It lets a buffer be declared statically without any allocation.
func (b *Buffer[T, I]) Init(storage []T, elements I) error {
	if err := checkCapacity(len(storage), elements); err != nil {
		return err
	}

	b.storage = storage[:elements:elements]
	b.capacity = elements
	b.Reset()

	return nil
}

// Write stores item at the write index and advances it, returning the new write index.
//
// When the buffer is full nothing is stored: Write returns the index of the
// last written slot together with ErrBufferFull.
func (b *Buffer[T, I]) Write(item T) (I, error) {
	if b.full {
		return prev(b.writeIdx, b.capacity), ErrBufferFull
	}

	b.storage[b.writeIdx] = item
	b.writeIdx = next(b.writeIdx, b.capacity)

	b.empty = false
	if b.writeIdx == b.readIdx {
		b.full = true
	}

	return b.writeIdx, nil
}

// TryWrite is Write with the outcome reported as a value instead of an error.
func (b *Buffer[T, I]) TryWrite(item T) WriteResult[I] {
	idx, err := b.Write(item)
	return WriteResult[I]{Index: idx, Written: err == nil}
}

// Read returns the oldest unread item and advances the read index.
//
// When the buffer is empty the read index is left untouched and Read returns
// the previously read item again together with ErrBufferEmpty. If nothing was
// read yet, the zero value is returned.
func (b *Buffer[T, I]) Read() (T, error) {
	ref, err := b.ReadRef()
	if ref == nil {
		return *new(T), err
	}
	return *ref, err
}

// ReadRef is like Read but returns a pointer to the slot in the backing
// storage instead of a copy. The pointer is valid until the slot is written again.
// On an empty buffer that was never read it returns nil and ErrBufferEmpty.
func (b *Buffer[T, I]) ReadRef() (*T, error) {
	if b.empty {
		if !b.hasRead {
			return nil, ErrBufferEmpty
		}
		return &b.storage[prev(b.readIdx, b.capacity)], ErrBufferEmpty
	}

	item := &b.storage[b.readIdx]
	b.readIdx = next(b.readIdx, b.capacity)
	b.hasRead = true

	b.full = false
	if b.readIdx == b.writeIdx {
		b.empty = true
	}

	return item, nil
}

// Peek returns the oldest unread item without advancing the read index.
func (b *Buffer[T, I]) Peek() (T, error) {
	if b.empty {
		return *new(T), ErrBufferEmpty
	}
	return b.storage[b.readIdx], nil
}

// IsFull reports whether the next Write would be refused.
func (b *Buffer[T, I]) IsFull() bool {
	return b.full
}

// IsEmpty reports whether the next Read would be refused.
func (b *Buffer[T, I]) IsEmpty() bool {
	return b.empty
}

// State returns the current occupancy state.
func (b *Buffer[T, I]) State() State {
	switch {
	case b.full:
		return StateFull
	case b.empty:
		return StateEmpty
	default:
		return StateNormal
	}
}

// Len returns the number of unread items.
func (b *Buffer[T, I]) Len() I {
	switch {
	case b.full:
		return b.capacity
	case b.empty:
		return 0
	case b.writeIdx > b.readIdx:
		return b.writeIdx - b.readIdx
	default:
		return b.capacity - b.readIdx + b.writeIdx
	}
}

// Free returns the number of items that can be written before the buffer is full.
func (b *Buffer[T, I]) Free() I {
	return b.capacity - b.Len()
}

// Cap returns the capacity of the buffer.
func (b *Buffer[T, I]) Cap() I {
	return b.capacity
}

// WriteIndex returns the slot the next Write stores into.
func (b *Buffer[T, I]) WriteIndex() I {
	return b.writeIdx
}

// ReadIndex returns the slot the next Read returns.
func (b *Buffer[T, I]) ReadIndex() I {
	return b.readIdx
}

// Reset moves both cursors back to the start and marks the buffer empty.
// The backing storage is left untouched.
func (b *Buffer[T, I]) Reset() {
	b.writeIdx = 0
	b.readIdx = 0
	b.full = false
	b.empty = true
	b.hasRead = false
}
