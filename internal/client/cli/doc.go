// Package cli provides the interactive movie client command-line interface.
//
// It wires configuration, local state, the API client and the application
// services, then runs a REPL. On start the stored session is restored; if
// the server later rejects the session for good, the user is told to log in
// again.
//
// Key features:
//   - Register / Login / social login over a loopback callback / Logout
//   - Device list, registration, renaming and removal
//   - Subscription plan, cancellation, auto-renew and payment method
//   - The content access gate ("watch") with localized prompts
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command loop.
package cli
