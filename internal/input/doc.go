// Package input keeps per-action input state sampled from a tracked device.
//
// Each registered [Action] owns a previous and a current value. Press edges
// are derived from that pair, so they live exactly one frame:
//
//   - [Store.Sync] or [Store.Set] writes the current value,
//   - consumers call [Store.Sample] and read Pressed,
//   - [Store.AdvanceFrame] copies current into previous after the last consumer.
//
// # Example
//
//	set := input.DefaultActionSet()
//	store := input.NewStore()
//	_ = set.Attach(store)
//	_ = store.Set("right_squeeze", input.Float(1))
//	s, _ := store.Sample(input.Action{Name: "right_squeeze", Kind: input.KindFloat})
//	_ = s.Pressed // true for this frame only
//	store.AdvanceFrame()
//
// # Thread Safety
//
// Store is NOT thread-safe. It is mutated by the device poller and the frame
// loop on the same goroutine.
package input
