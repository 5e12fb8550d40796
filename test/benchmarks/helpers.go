// test/benchmarks/helpers.go
package benchmarks

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
)

// buildLedger generates a replayable movement history for one item. The
// sequence always starts with an opening ADJUSTMENT and never lets the
// running quantity go negative, so folding it with Apply cannot fail.
func buildLedger(itemID uuid.UUID, length int, seed int64) []domain.Movement {
	rng := rand.New(rand.NewSource(seed))
	movements := make([]domain.Movement, 0, length)

	now := time.Now().UTC().Add(-time.Duration(length) * time.Minute)
	current := 100 + rng.Intn(400)
	movements = append(movements, domain.Movement{
		ID:        uuid.New(),
		ItemID:    itemID,
		Type:      domain.MovementAdjustment,
		Quantity:  current,
		Reason:    "opening stock",
		CreatedAt: now,
	})

	for i := 1; i < length; i++ {
		m := domain.Movement{
			ID:        uuid.New(),
			ItemID:    itemID,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}
		switch rng.Intn(4) {
		case 0:
			m.Type = domain.MovementIn
			m.Quantity = 1 + rng.Intn(50)
			current += m.Quantity
		case 1:
			m.Type = domain.MovementReturn
			m.Quantity = 1 + rng.Intn(5)
			current += m.Quantity
		case 2:
			m.Type = domain.MovementOut
			if current == 0 {
				m.Type = domain.MovementIn
				m.Quantity = 1 + rng.Intn(50)
				current += m.Quantity
				break
			}
			m.Quantity = 1 + rng.Intn(current)
			current -= m.Quantity
		default:
			m.Type = domain.MovementAdjustment
			m.Quantity = rng.Intn(500)
			current = m.Quantity
		}
		movements = append(movements, m)
	}

	return movements
}
