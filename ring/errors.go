package ring

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCapacity is returned when a buffer is built with zero elements.
	ErrInvalidCapacity = errors.New("ring buffer: capacity must be at least 1")
	// ErrStorageTooSmall is returned when the backing slice is shorter than the requested capacity.
	ErrStorageTooSmall = errors.New("ring buffer: backing storage is smaller than capacity")
	// ErrBufferFull is returned by a protected write refused because the buffer is full
	ErrBufferFull = errors.New("ring buffer: buffer is full")
	// ErrBufferEmpty is returned by a protected read refused because the buffer is empty
	ErrBufferEmpty = errors.New("ring buffer: buffer is empty")
)

func checkCapacity[I Index](storageLen int, elements I) error {
	if elements == 0 {
		return ErrInvalidCapacity
	}

	if uint64(storageLen) < uint64(elements) {
		return fmt.Errorf("%w: storage has %d elements, capacity is %d", ErrStorageTooSmall, storageLen, elements)
	}

	return nil
}
