// Package testutil provides shared fixtures for rig tests.
//
// Key components:
//   - Env: an in-memory filesystem rooted at a fake rig root, with helpers
//     to lay out profiles and manifests
//   - FakeRunner: a runner.Runner that records every command and returns
//     scripted results instead of spawning processes
//
// Tests should prefer Env over real temp directories; only the runner and
// paths packages need the real filesystem.
package testutil
