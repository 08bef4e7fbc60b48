// Package console is a terminal admin shell over the account store.
//
// It reads one command per line and runs it against the same service the
// bot uses. Missing arguments are asked for interactively.
package console
