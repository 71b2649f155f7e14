// Package cli provides the interactive Orbiter command-line client.
//
// It wires configuration, the local session cache, the API client and an
// interactive REPL. A session saved by an earlier run is picked up on start,
// so "me" works right away after a previous "login".
//
// Commands: register, login, me, logout, health, help, exit.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends. See runREPL for details.
package cli
