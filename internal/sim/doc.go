// Package sim runs machines for a bounded number of steps.
//
// A run never fails: the first step error (an undefined transition or the
// head leaving the tape under the halt policy) ends the run and is reported
// in [Result.Reason]. The machine keeps the configuration it reached, which
// is what callers compare.
//
//	res := sim.Run(m.Clone(), 50)
//	if res.Halted {
//	    // m froze after res.Steps steps
//	}
//
// # Thread Safety
//
// A Runner is NOT thread-safe when observers keep state. [MachinePool] and
// [ParallelFor] are safe for concurrent use.
package sim
