// Package pgmap holds the small conversions shared by the DTO mappers.
package pgmap

import (
	"freight/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UUIDPtr converts an optional domain id into its column value.
func UUIDPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

// ToUUID converts a column value into a domain id.
func ToUUID(raw uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(raw[:])
}

// ToUUIDPtr converts an optional column value into a domain id.
func ToUUIDPtr(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent column
	}
	id, err := ToUUID(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// MoneyPtr converts an optional amount into its column value.
func MoneyPtr(m *kernel.Money) *decimal.Decimal {
	if m == nil {
		return nil
	}
	d := m.Decimal()
	return &d
}

// ToMoneyPtr converts an optional column value into an amount.
func ToMoneyPtr(d *decimal.Decimal) (*kernel.Money, error) {
	if d == nil {
		return nil, nil //nolint:nilnil // absent column
	}
	m, err := kernel.NewMoney(*d)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
