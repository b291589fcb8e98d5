package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/squadracorsepolito/ringbuf/ring"
)

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario",
		Short: "Walk through the protected write/read protocol on a 4 slot buffer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScenario(cmd.OutOrStdout())
		},
	}
}

// runScenario fills a 4 slot buffer past its capacity and drains it past empty,
// printing the outcome of every call.
func runScenario(w io.Writer) error {
	var storage [4]int

	rb, err := ring.New(storage[:], uint8(len(storage)))
	if err != nil {
		return err
	}

	for _, val := range []int{1, 2, 3, 4, 5} {
		idx, err := rb.Write(val)
		switch {
		case err == nil:
			fmt.Fprintf(w, "write(%d) -> index %d\tstate=%s\n", val, idx, rb.State())
		case errors.Is(err, ring.ErrBufferFull):
			fmt.Fprintf(w, "write(%d) -> refused, last index %d\tstate=%s\n", val, idx, rb.State())
		default:
			return err
		}
	}

	fmt.Fprintf(w, "storage = %v\n", storage)

	for range 5 {
		item, err := rb.Read()
		switch {
		case err == nil:
			fmt.Fprintf(w, "read() -> %d\tstate=%s\n", item, rb.State())
		case errors.Is(err, ring.ErrBufferEmpty):
			fmt.Fprintf(w, "read() -> refused, previous item %d\tstate=%s\n", item, rb.State())
		default:
			return err
		}
	}

	return nil
}
