// Package interact implements hand-driven object interaction: grabbing and
// releasing objects within reach, and "gravity grabbing" objects at a
// distance by targeting them, pulling them, and launching them toward the
// hand on a ballistic arc.
//
// The package owns no physics. It consumes:
//
//   - a [World] for overlap/sweep queries and hand attachments,
//   - a [tracking.Tracker] for hand pose and velocity,
//   - an [Actions] source for edge-triggered input samples.
//
// Interaction state lives in a [Session] with one slot each for the held,
// pulled and targeted object, so at most one object is in each state at a
// time regardless of how many hands drive the [Pipeline].
//
// # Tick Order
//
// [Pipeline.Tick] clears the target, runs the gravity-grab machine (pull
// resolution, then sweep and trigger), then the grab machine. The caller
// advances the input store after the tick.
//
// # Thread Safety
//
// Pipeline and Session are NOT thread-safe. Run one pipeline per goroutine.
package interact
