// Package core provides the foundational domain types used by procmesh. It
// defines the core abstractions for:
//
//   - Events (immutable named messages routed between steps)
//   - Steps (named units of orchestrated work with declared operations and
//     optional per-run state)
//   - RunContext (scoped execution context carrying the injected capability
//     and logger into step operations)
//   - The error taxonomy shared by the builder and the engine
//
// The package intentionally keeps implementation concerns (graph construction,
// engine dispatch, concrete steps) out of scope, exposing small interfaces to
// keep higher layers decoupled.
package core
