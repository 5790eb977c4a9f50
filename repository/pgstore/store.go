// Package pgstore is the PostgreSQL Store.
package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Rahulstark2/librarymanagement/repository"
	auth "github.com/Rahulstark2/librarymanagement/repository/auth"
	catalogrepo "github.com/Rahulstark2/librarymanagement/repository/catalog"
	finerepo "github.com/Rahulstark2/librarymanagement/repository/fine"
	loanrepo "github.com/Rahulstark2/librarymanagement/repository/loan"
	memberrepo "github.com/Rahulstark2/librarymanagement/repository/member"
	sequencerepo "github.com/Rahulstark2/librarymanagement/repository/sequence"
	"github.com/Rahulstark2/librarymanagement/util/database"
)

type repos struct {
	catalog   catalogrepo.Repo
	loans     loanrepo.Repo
	fines     finerepo.Repo
	members   memberrepo.Repo
	sequences sequencerepo.Repo
	users     auth.Repo
}

func bind(q database.Querier) *repos {
	return &repos{
		catalog:   catalogrepo.New(q),
		loans:     loanrepo.New(q),
		fines:     finerepo.New(q),
		members:   memberrepo.New(q),
		sequences: sequencerepo.New(q),
		users:     auth.New(q),
	}
}

func (r *repos) Catalog() catalogrepo.Repo    { return r.catalog }
func (r *repos) Loans() loanrepo.Repo         { return r.loans }
func (r *repos) Fines() finerepo.Repo         { return r.fines }
func (r *repos) Members() memberrepo.Repo     { return r.members }
func (r *repos) Sequences() sequencerepo.Repo { return r.sequences }
func (r *repos) Users() auth.Repo             { return r.users }

type store struct {
	*repos
	db *database.DB
}

func New(db *database.DB) repository.Store {
	return &store{repos: bind(db.Pool), db: db}
}

func (s *store) RunInTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		return fn(bind(tx))
	})
}
