// Package chaos simulates the latency and unreliability configured on an
// endpoint.
//
// A Fault pairs a fixed delay with a failure probability. Simulator.Apply
// sleeps for the delay and then rolls once against the probability:
//
//	sim := chaos.NewSimulator()
//	if err := sim.Apply(chaos.Fault{Latency: 200 * time.Millisecond, FailureRate: 0.1}); err != nil {
//	    // errors.Is(err, chaos.ErrSimulatedFailure)
//	}
//
// The sleep is unconditional: a client that disconnects does not cut it short.
package chaos
