package commands

import (
	"errors"

	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrExpireOffersCommandIsNotConstructed = errors.New(
	"ExpireOffersCommand must be created via NewExpireOffersCommand constructor",
)

// ExpireOffersCommand sweeps at most batchSize stale pending offers.
type ExpireOffersCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

func NewExpireOffersCommand(batchSize int) (ExpireOffersCommand, error) {
	if batchSize <= 0 {
		return ExpireOffersCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, "unbounded")
	}

	return ExpireOffersCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ExpireOffersCommand) Validate() error {
	return c.guard.Validate(ErrExpireOffersCommandIsNotConstructed)
}

func (c ExpireOffersCommand) BatchSize() int {
	return c.batchSize
}
