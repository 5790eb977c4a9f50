package sequencerepo

import (
	"context"
	"fmt"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/util/database"
)

// Repo allocates sequential identifiers per entity class.
type Repo interface {
	// NextID returns the next identifier for class: 1 on an empty class,
	// then max+1.
	NextID(ctx context.Context, class model.SequenceClass) (int64, error)
}

type repo struct{ q database.Querier }

func New(q database.Querier) Repo { return &repo{q: q} }

// seed queries start a missing counter at the current maximum.
var seeds = map[model.SequenceClass]string{
	model.SequenceMembership: `SELECT COALESCE(MAX(membership_number), 0) FROM memberships`,
	model.SequenceBook:       `SELECT COALESCE(MAX(serial_number), 0) FROM catalog_items WHERE item_type = 'Book'`,
	model.SequenceMovie:      `SELECT COALESCE(MAX(serial_number), 0) FROM catalog_items WHERE item_type = 'Movie'`,
}

func (r *repo) NextID(ctx context.Context, class model.SequenceClass) (int64, error) {
	seed, ok := seeds[class]
	if !ok {
		return 0, fmt.Errorf("unknown sequence class %q", class)
	}
	// increment-and-return in one statement; callers serialize on the counter row
	q := `
		INSERT INTO id_sequences (entity_class, last_value)
		VALUES ($1, (` + seed + `) + 1)
		ON CONFLICT (entity_class)
		DO UPDATE SET last_value = id_sequences.last_value + 1
		RETURNING last_value`
	var id int64
	if err := r.q.QueryRow(ctx, q, string(class)).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
