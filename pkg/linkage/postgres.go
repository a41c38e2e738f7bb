package linkage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authbridge/pkg/auth"
	"github.com/dmitrymomot/authbridge/pkg/pg"
)

// DefaultTable is the linkage table used unless WithTable overrides it.
const DefaultTable = "auth_linkage"

// Postgres is a linkage store backed by a Postgres table. Writes are
// serialized through an advisory transaction lock keyed on the table name,
// which keeps id issuing monotonic across hosts.
type Postgres struct {
	auth.Traits

	pool  *pgxpool.Pool
	table string
}

// PostgresOption customizes a Postgres linkage store.
type PostgresOption func(*Postgres)

// WithTable overrides the linkage table name.
func WithTable(table string) PostgresOption {
	return func(p *Postgres) {
		if table != "" {
			p.table = table
		}
	}
}

// ConnectPostgres dials the database described by cfg and returns a
// Postgres-backed linkage store on top of the resulting pool.
func ConnectPostgres(ctx context.Context, cfg pg.Config, opts ...PostgresOption) (*Postgres, error) {
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewPostgres(ctx, pool, opts...)
}

// NewPostgres returns a Postgres-backed linkage store, creating the table
// and its id sequence when they do not exist yet.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool, opts ...PostgresOption) (*Postgres, error) {
	if pool == nil {
		return nil, ErrNilPool
	}
	p := &Postgres{pool: pool, table: DefaultTable}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.migrate(ctx); err != nil {
		return nil, fmt.Errorf("linkage: migrate: %w", err)
	}
	return p, nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, unified_id BIGINT NOT NULL)`, p.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_unified_id_idx ON %s (unified_id)`, p.table, p.table),
		fmt.Sprintf(`CREATE SEQUENCE IF NOT EXISTS %s_id_seq`, p.table),
	}
	for _, stmt := range stmts {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// lockTx serializes linkage writers for this table until the transaction
// ends.
func (p *Postgres) lockTx(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, p.table)
	return err
}

func (p *Postgres) resolveTx(ctx context.Context, tx pgx.Tx, keys []string) (int64, error) {
	rows, err := tx.Query(ctx, fmt.Sprintf(`SELECT DISTINCT unified_id FROM %s WHERE key = ANY($1)`, p.table), keys)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var id int64
	var seen int
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return 0, err
		}
		seen++
		if seen > 1 {
			return 0, ErrMultipleIdentities
		}
		id = v
	}
	return id, rows.Err()
}

// FindUnifiedUser resolves the unified id behind a set of login results,
// issuing a fresh id from the table sequence when none of them is linked
// yet and backfilling rows for any local id seen for the first time.
func (p *Postgres) FindUnifiedUser(ctx context.Context, locals map[string]string) (int64, error) {
	keys := keysFor(locals)
	if len(keys) == 0 {
		return auth.NoUser, nil
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return auth.NoUser, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := p.lockTx(ctx, tx); err != nil {
		return auth.NoUser, err
	}
	id, err := p.resolveTx(ctx, tx, keys)
	if err != nil {
		return auth.NoUser, err
	}
	if id == 0 {
		if err := tx.QueryRow(ctx, fmt.Sprintf(`SELECT nextval('%s_id_seq')`, p.table)).Scan(&id); err != nil {
			return auth.NoUser, err
		}
	}
	for _, k := range keys {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`INSERT INTO %s (key, unified_id) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`, p.table), k, id); err != nil {
			return auth.NoUser, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return auth.NoUser, err
	}
	return id, nil
}

// GetUnifiedUsers returns every driver-local account id linked to the given
// unified id, keyed by driver name.
func (p *Postgres) GetUnifiedUsers(ctx context.Context, id int64) (map[string]string, error) {
	rows, err := p.pool.Query(ctx, fmt.Sprintf(`SELECT key FROM %s WHERE unified_id = $1`, p.table), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		if driver, localID, ok := splitKey(k); ok {
			out[driver] = localID
		}
	}
	return out, rows.Err()
}

// DeleteUnifiedUser removes the links behind a set of login results and
// reports which unified id they belonged to. It never issues a new id:
// unknown links resolve to auth.NoUser and nothing is removed.
func (p *Postgres) DeleteUnifiedUser(ctx context.Context, locals map[string]string) (int64, error) {
	keys := keysFor(locals)
	if len(keys) == 0 {
		return auth.NoUser, nil
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return auth.NoUser, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := p.lockTx(ctx, tx); err != nil {
		return auth.NoUser, err
	}
	id, err := p.resolveTx(ctx, tx, keys)
	if err != nil {
		return auth.NoUser, err
	}
	if id == 0 {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			return auth.NoUser, err
		}
		return auth.NoUser, nil
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = ANY($1)`, p.table), keys); err != nil {
		return auth.NoUser, err
	}
	if err := tx.Commit(ctx); err != nil {
		return auth.NoUser, err
	}
	return id, nil
}
