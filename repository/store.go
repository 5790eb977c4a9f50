// Package repository groups the per-entity repositories behind a unit of work.
// Every read-check-write sequence of the circulation engine runs inside
// Store.RunInTx so it observes and mutates one consistent snapshot.
package repository

import (
	"context"

	auth "github.com/Rahulstark2/librarymanagement/repository/auth"
	catalogrepo "github.com/Rahulstark2/librarymanagement/repository/catalog"
	finerepo "github.com/Rahulstark2/librarymanagement/repository/fine"
	loanrepo "github.com/Rahulstark2/librarymanagement/repository/loan"
	memberrepo "github.com/Rahulstark2/librarymanagement/repository/member"
	sequencerepo "github.com/Rahulstark2/librarymanagement/repository/sequence"
)

// Tx exposes the repositories bound to one transaction.
type Tx interface {
	Catalog() catalogrepo.Repo
	Loans() loanrepo.Repo
	Fines() finerepo.Repo
	Members() memberrepo.Repo
	Sequences() sequencerepo.Repo
	Users() auth.Repo
}

// Store is the persistent store. Its own Tx methods run outside any
// transaction and are meant for single-statement reads.
type Store interface {
	Tx
	// RunInTx commits only when fn returns nil; any error rolls back every
	// write fn made.
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}
