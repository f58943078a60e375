package repository

import (
	"context"

	"lagoon-booking/internal/infra"
	"lagoon-booking/internal/infra/db"
	"lagoon-booking/internal/pkg/pgconv"
	"lagoon-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type villaRepository struct{}

func NewVillaRepository() shared.VillaRepository {
	return &villaRepository{}
}

const lockVillaSQL = `SELECT id FROM villas WHERE id = $1 FOR UPDATE`

// Lock serializes availability checks and unit assignment per villa.
// Creation and check-in both take this lock first, so their lock order
// (villa, then booking row) never inverts.
func (r *villaRepository) Lock(ctx context.Context, q db.DBTX, villaID uuid.UUID) error {
	var id uuid.UUID
	if err := q.QueryRow(ctx, lockVillaSQL, villaID).Scan(&id); err != nil {
		if pgconv.IsNoRows(err) {
			return infra.WrapRepoErr("villa not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to lock villa row", err)
	}
	return nil
}
