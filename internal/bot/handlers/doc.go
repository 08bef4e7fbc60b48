// Package handlers implements the bot interactions. Each handler type claims
// updates through CanHandle; Default returns them in dispatch order.
package handlers
