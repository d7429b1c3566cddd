// Package cli provides the interactive giftswap command-line client.
//
// It wires configuration, local storage, the list history and the pairing
// generator behind services.ExchangeService, and runs a REPL that keeps one
// active list in memory. Every change to the active list is saved right away;
// when saving fails the list stays active and the prompt marks it unsaved.
//
// Commands:
//   - new, title: start or rename a list (titles are unique)
//   - add, remove: edit participants; matches are drawn again on every change
//   - shuffle, show: draw again, print the list
//   - history, select: browse and reopen saved lists
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
