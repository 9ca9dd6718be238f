package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/rulial/internal/experiment"
)

// interactive asks for a step count, shows one summary per step limit
// below it and repeats until the user declines to continue.
func interactive(ctx context.Context, e *experiment.Experiment, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		steps, ok, err := promptSteps(sc, out)
		if err != nil || !ok {
			return err
		}
		if err := runFrames(ctx, e, steps, out); err != nil {
			return err
		}

		fmt.Fprint(out, "continue? [y/n] ")
		if !sc.Scan() {
			return sc.Err()
		}
		if strings.ToLower(strings.TrimSpace(sc.Text())) != "y" {
			return nil
		}
	}
}

// promptSteps reads a non-negative integer, asking again on bad input. ok is
// false once input ends.
func promptSteps(sc *bufio.Scanner, out io.Writer) (steps int, ok bool, err error) {
	for {
		fmt.Fprint(out, "steps: ")
		if !sc.Scan() {
			return 0, false, sc.Err()
		}
		n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
		if err != nil || n < 0 {
			fmt.Fprintln(out, "enter a non-negative integer")
			continue
		}
		return n, true, nil
	}
}

// runFrames builds step limits 0..steps-1 and prints one line per frame.
func runFrames(ctx context.Context, e *experiment.Experiment, steps int, out io.Writer) error {
	return e.Sweep(ctx, steps, func(f *experiment.Frame) error {
		s := f.Stats
		_, err := fmt.Fprintf(out, "frame %d: %d machines, %d edges, %d classes (largest %d), %d halted\n",
			s.StepLimit, s.Nodes, s.Edges, s.Classes, s.LargestClass, s.Halted)
		return err
	})
}
