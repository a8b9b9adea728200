package commands

import (
	"errors"

	"swiftlogistics/internal/pkg/guard"
)

var ErrAssignOrdersCommandIsNotConstructed = errors.New(
	"AssignOrdersCommand must be created via NewAssignOrdersCommand constructor",
)

// AssignOrdersCommand triggers one assignment pass: matching every order
// waiting in the warehouse to the active drivers, bounded by each
// driver's vehicle capacity.
type AssignOrdersCommand struct {
	guard guard.ConstructorGuard
}

// NewAssignOrdersCommand creates a parameterless command to trigger an
// assignment pass.
func NewAssignOrdersCommand() AssignOrdersCommand {
	return AssignOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *AssignOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrdersCommandIsNotConstructed)
}
