// Package coverage decides whether a set of hardware sensors, each covering a
// rectangle of the distance × light parameter space, jointly covers the
// rectangle demanded by a software consumer.
//
// The decision is a short-circuiting chain of four gates:
//
//  1. range validation of every sensor (malformed input is an error),
//  2. exact corner coverage on the original float coordinates,
//  3. inward discretisation of the requirement and clipping of each sensor
//     to that integer lattice,
//  4. a stripe sweep along the distance axis, checking per stripe that the
//     merged light intervals of the active sensors span the required light range.
//
// The sweep works on the integer lattice only. Gaps narrower than one unit
// that lie strictly inside a lattice cell are not detected unless the corner
// gate catches them. This is a known limitation of the discrete approach and is
// preserved deliberately: switching to exact real-interval arithmetic would
// change results on sub-unit gap scenarios.
//
// All functions are pure and allocate their intermediate state per call, so
// they are safe for concurrent use as long as callers do not mutate the inputs
// while a call is in flight.
package coverage
