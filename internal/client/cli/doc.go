// Package cli provides the interactive ScholarScout command-line client.
//
// It wires the session, the profile-completion tracker and the backend
// APIs into a read–eval–print loop. Typical flow: restore a stored session,
// then execute user commands until "exit" or end of input.
//
// Key features:
//   - Register / Login / OAuth sign-in / Logout
//   - Scholarship search, details and reviews
//   - Profile view and editing, gated dashboard and matches
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
