// Package order contains the Order aggregate and its lifecycle status
// machine. Orders advance through a fixed forward sequence from submission
// to delivery; failures from any non-terminal status land in the terminal
// Failed status.
package order
