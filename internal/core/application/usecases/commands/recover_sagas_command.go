package commands

import (
	"errors"

	"swiftlogistics/internal/pkg/guard"
)

var ErrRecoverSagasCommandIsNotConstructed = errors.New(
	"RecoverSagasCommand must be created via NewRecoverSagasCommand constructor",
)

// RecoverSagasCommand triggers the startup recovery pass over saga
// executions that were still running when the previous process died.
// External systems may already reflect their partial submissions, so each
// one is compensated from its durable step log.
type RecoverSagasCommand struct {
	guard guard.ConstructorGuard
}

// NewRecoverSagasCommand creates a parameterless recovery command.
func NewRecoverSagasCommand() RecoverSagasCommand {
	return RecoverSagasCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *RecoverSagasCommand) Validate() error {
	return c.guard.Validate(ErrRecoverSagasCommandIsNotConstructed)
}
