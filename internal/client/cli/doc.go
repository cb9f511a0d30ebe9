// Package cli provides the interactive stockkeeper command-line client.
//
// It wires configuration, the REST API client and an interactive REPL.
// Typical flow: log in, then run inventory commands. The token lives only in
// memory; a 401 from the server drops it and the prompt falls back to the
// logged-out command set.
//
// Key features:
//   - Register / Login / Logout / whoami
//   - List items, low stock, add an item, stats
//   - Record stock in / out, show transaction history
//   - Export the inventory CSV, or archive it to object storage and download
//     the archived copy
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
