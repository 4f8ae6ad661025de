package guard_test

import (
	"errors"
	"sync"
	"testing"

	"freight/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	errNotConstructed := errors.New("shipment must be created via NewShipment")

	t.Run("constructed guard passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero value returns the given error", func(t *testing.T) {
		var g guard.ConstructorGuard

		assert.Equal(t, errNotConstructed, g.Validate(errNotConstructed))
	})

	t.Run("zero value falls back to default error", func(t *testing.T) {
		var g guard.ConstructorGuard

		assert.Equal(t, guard.ErrDefaultConstructorGuard, g.Validate(nil))
		assert.Equal(t, "object must be created via its constructor", guard.ErrDefaultConstructorGuard.Error())
	})

	t.Run("copies keep their state", func(t *testing.T) {
		g := guard.NewConstructorGuard()
		c := g

		require.NoError(t, c.Validate(errNotConstructed))
	})
}

func TestConstructorGuard_Embedded(t *testing.T) {
	type money struct {
		cents int64
		guard guard.ConstructorGuard
	}
	errMoney := errors.New("money must be created via newMoney")
	newMoney := func(cents int64) (money, error) {
		if cents < 0 {
			return money{}, errors.New("negative amount")
		}
		return money{cents: cents, guard: guard.NewConstructorGuard()}, nil
	}

	m, err := newMoney(1500)
	require.NoError(t, err)
	require.NoError(t, m.guard.Validate(errMoney))

	var zero money
	require.ErrorIs(t, zero.guard.Validate(errMoney), errMoney)
}

func TestConstructorGuard_Concurrency(t *testing.T) {
	g := guard.NewConstructorGuard()
	errNotConstructed := errors.New("not constructed")

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				assert.NoError(t, g.Validate(errNotConstructed))
			}
		}()
	}
	wg.Wait()
}
