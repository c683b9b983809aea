package store

import (
	"context"
	"database/sql"
)

// SetSoldOut flips the sold-out flag of an item in every collection it is listed in.
// Views mounted afterwards see the new value; mounted views keep the catalog they
// were created with.
func (s *PostgresStore) SetSoldOut(ctx context.Context, name string, soldOut bool) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE items SET sold_out=$1 WHERE name=$2`, soldOut, name)
	if err != nil {
		return err
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		return sql.ErrNoRows
	}
	return nil
}
