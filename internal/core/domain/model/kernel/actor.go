package kernel

import (
	"fmt"
	"strings"

	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrActorIsNotConstructed = errs.NewValueIsRequiredError("actor must be created via NewActor")

// Role is what the authenticated user acts as.
type Role int

const (
	RoleUnknown Role = iota
	RoleSender
	RoleCarrier
	RoleDriver
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleSender:  "sender",
	RoleCarrier: "carrier",
	RoleDriver:  "driver",
	RoleAdmin:   "admin",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

func ParseRole(s string) (Role, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for role, name := range roleNames {
		if name == needle {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

// Actor is the caller of a use case as supplied by authentication. Drivers
// belong to a carrier company and act on its behalf.
type Actor struct {
	userID    UUID
	role      Role
	companyID *UUID
	guard     guard.ConstructorGuard
}

func NewActor(userID UUID, role Role, companyID *UUID) (Actor, error) {
	if err := userID.Validate(); err != nil {
		return Actor{}, err
	}
	if _, ok := roleNames[role]; !ok {
		return Actor{}, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a known role", role))
	}
	if role == RoleDriver {
		if companyID == nil {
			return Actor{}, errs.NewValueIsRequiredError("company of driver")
		}
		if err := companyID.Validate(); err != nil {
			return Actor{}, err
		}
	}

	a := Actor{userID: userID, role: role, guard: guard.NewConstructorGuard()}
	if role == RoleDriver {
		c := *companyID
		a.companyID = &c
	}
	return a, nil
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) ID() UUID {
	return a.userID
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

func (a Actor) IsSender() bool {
	return a.role == RoleSender
}

// CarrierID is the carrier the actor bids and delivers for: carriers act for
// themselves, drivers for their company.
func (a Actor) CarrierID() (UUID, bool) {
	switch a.role {
	case RoleCarrier:
		return a.userID, true
	case RoleDriver:
		return *a.companyID, true
	default:
		return UUID{}, false
	}
}

// ActsFor reports whether the actor may operate on behalf of carrierID.
func (a Actor) ActsFor(carrierID UUID) bool {
	id, ok := a.CarrierID()
	return ok && id.IsEqual(carrierID)
}

func (a Actor) String() string {
	return fmt.Sprintf("%s %s", a.role, a.userID)
}
