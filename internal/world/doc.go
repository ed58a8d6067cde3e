// Package world is a small in-memory rigid-body world used to drive the
// interaction core in tests, scenario playback and the CLI.
//
// Bodies are oriented boxes. The world answers the two spatial queries the
// interaction core needs:
//
//   - [World.Overlap]: oriented box against every body (separating axis test)
//   - [World.Sweep]: sphere cast against every body (slab test on the box
//     inflated by the sphere radius)
//
// and integrates free bodies with [World.Step] (semi-implicit Euler, gravity,
// ground plane at y = 0).
//
// # Thread Safety
//
// World is NOT thread-safe. Each scenario run owns its own World.
package world
