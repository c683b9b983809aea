package store

import (
	"context"
	"database/sql"
	_ "embed"

	_ "github.com/lib/pq"

	"item-listing/catalog"
	models "item-listing/model"
)

//go:embed migrations.sql
var migrationSQL string

// PostgresStore reads the catalog from Postgres.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := DB.PingContext(ctx); err != nil {
		_ = DB.Close()
		return nil, err
	}
	return &PostgresStore{DB: DB}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// Migrate creates the schema and seeds it with the compiled-in catalog.
// Rows that already exist are left untouched, so sold-out flags set at
// runtime survive a restart.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, migrationSQL); err != nil {
		return err
	}
	return s.seed(ctx, catalog.Default())
}

func (s *PostgresStore) seed(ctx context.Context, collections []models.Collection) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for cpos, c := range collections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collections (name, position) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			c.Name, cpos); err != nil {
			return err
		}
		for ipos, it := range c.Items {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO items (name, price, updated_at, sold_out) VALUES ($1, $2, $3, $4) ON CONFLICT (name) DO NOTHING`,
				it.Name, it.Price, it.UpdatedAt, it.IsSoldOut); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO collection_items (collection_name, position, item_name) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				c.Name, ipos, it.Name); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Collections returns every collection with its items, both in display order.
// Collections without items are returned with an empty item list.
func (s *PostgresStore) Collections(ctx context.Context) ([]models.Collection, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT c.name, i.name, i.price, i.updated_at, i.sold_out
		FROM collections c
		LEFT JOIN collection_items ci ON ci.collection_name = c.name
		LEFT JOIN items i ON i.name = ci.item_name
		ORDER BY c.position, ci.position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Collection{}
	for rows.Next() {
		var (
			collection string
			name       sql.NullString
			price      sql.NullInt64
			updatedAt  sql.NullTime
			soldOut    sql.NullBool
		)
		if err := rows.Scan(&collection, &name, &price, &updatedAt, &soldOut); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].Name != collection {
			out = append(out, models.Collection{Name: collection, Items: []models.Item{}})
		}
		if !name.Valid {
			continue
		}
		last := &out[len(out)-1]
		last.Items = append(last.Items, models.Item{
			Name:      name.String,
			Price:     price.Int64,
			UpdatedAt: updatedAt.Time.UTC(),
			IsSoldOut: soldOut.Bool,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
