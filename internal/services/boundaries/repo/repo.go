// Package repo provides postgres access to ward boundaries
package repo

import (
	"context"

	"wardtpr/internal/modkit/repokit"
	perr "wardtpr/internal/platform/errors"
	"wardtpr/internal/platform/store"
)

// Schema creates the boundary table when missing; loaders own the rows
var Schema = []string{
	`create table if not exists ward_boundaries (
	ward_code  text,
	ward_name  text  not null,
	lga_name   text  not null default '',
	state_name text  not null,
	geometry   jsonb
)`,
	`create index if not exists ward_boundaries_state_idx on ward_boundaries (lower(state_name))`,
}

// EnsureSchema applies Schema in one transaction
func EnsureSchema(ctx context.Context, tx repokit.TxRunner) error {
	err := repokit.WithTx(ctx, tx, func(q repokit.Queryer) error {
		for _, stmt := range Schema {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	return perr.FromPostgres(err, "ensure boundary schema")
}

// Repo defines the repository contract for boundaries
type Repo interface {
	ByState(ctx context.Context, state string) ([]RowFeature, error)
	States(ctx context.Context) ([]string, error)
}

// RowFeature is one ward_boundaries row
type RowFeature struct {
	WardCode string `db:"ward_code"`
	WardName string `db:"ward_name"`
	LGAName  string `db:"lga_name"`
	State    string `db:"state_name"`
	Geometry []byte `db:"geometry"`
}

type (
	// PG implements Repo using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) ByState(ctx context.Context, state string) ([]RowFeature, error) {
	const sql = `
select coalesce(ward_code, '') as ward_code, ward_name, lga_name, state_name, geometry::text as geometry
from ward_boundaries
where lower(state_name) = lower($1)
order by ward_name, lga_name
`
	out, err := store.StructsByName[RowFeature](ctx, r.q, sql, state)
	if err != nil {
		return nil, perr.FromPostgresf(err, "boundaries for %s", state)
	}
	return out, nil
}

func (r *queries) States(ctx context.Context) ([]string, error) {
	const sql = `select distinct state_name from ward_boundaries order by state_name`
	out, err := store.Many(ctx, r.q, func(row store.Row) (string, error) {
		var s string
		return s, row.Scan(&s)
	}, sql)
	return out, perr.FromPostgres(err, "boundary states")
}
