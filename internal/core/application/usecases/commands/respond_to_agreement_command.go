package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrRespondToAgreementCommandIsNotConstructed = errors.New(
	"RespondToAgreementCommand must be created via NewRespondToAgreementCommand constructor",
)

type RespondToAgreementCommand struct { //nolint:recvcheck //using for validation
	actor       kernel.Actor
	agreementID kernel.UUID
	accept      bool

	guard guard.ConstructorGuard
}

func NewRespondToAgreementCommand(
	actor kernel.Actor,
	agreementID kernel.UUID,
	accept bool,
) (RespondToAgreementCommand, error) {
	if err := errors.Join(actor.Validate(), agreementID.Validate()); err != nil {
		return RespondToAgreementCommand{}, err
	}

	return RespondToAgreementCommand{
		actor:       actor,
		agreementID: agreementID,
		accept:      accept,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c RespondToAgreementCommand) Validate() error {
	return c.guard.Validate(ErrRespondToAgreementCommandIsNotConstructed)
}

func (c RespondToAgreementCommand) Actor() kernel.Actor {
	return c.actor
}

func (c RespondToAgreementCommand) AgreementID() kernel.UUID {
	return c.agreementID
}

func (c RespondToAgreementCommand) Accept() bool {
	return c.accept
}
