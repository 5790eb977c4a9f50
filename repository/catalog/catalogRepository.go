package catalogrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/util/database"
)

// SearchLimit caps autocomplete results.
const SearchLimit = 10

var (
	ErrDuplicate        = errors.New("catalog item already exists")
	ErrNotFound         = errors.New("catalog item not found")
	ErrNegativeQuantity = errors.New("quantity would become negative")
)

type SearchQuery struct {
	Type        model.ItemType
	ItemQuery   string
	PersonQuery string
}

type Repo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error)
	FindByNameAndCreator(ctx context.Context, t model.ItemType, name, creator string) (*model.CatalogItem, error)
	FindByNameAndSerial(ctx context.Context, t model.ItemType, name string, serial int64) (*model.CatalogItem, error)
	Create(ctx context.Context, item *model.CatalogItem) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ItemStatus, date time.Time) error
	SetStatus(ctx context.Context, id uuid.UUID, status model.ItemStatus) error
	// AdjustQuantity adds delta and returns the new quantity.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (int, error)
	List(ctx context.Context, t model.ItemType) ([]model.CatalogItem, error)
	Search(ctx context.Context, q SearchQuery) ([]model.CatalogItem, error)
}

const (
	tableItems = "catalog_items"
	selectCols = `id, item_type, name, creator, serial_number, quantity, status, procurement_date, status_date, created_at`
)

var (
	dialect  = goqu.Dialect("postgres")
	itemCols = []interface{}{"id", "item_type", "name", "creator", "serial_number", "quantity", "status", "procurement_date", "status_date", "created_at"}
)

type repo struct{ q database.Querier }

func New(q database.Querier) Repo { return &repo{q} }

func scanItem(row pgx.Row) (*model.CatalogItem, error) {
	var it model.CatalogItem
	if err := row.Scan(
		&it.ID, &it.Type, &it.Name, &it.Creator, &it.SerialNumber,
		&it.Quantity, &it.Status, &it.ProcurementDate, &it.StatusDate, &it.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repo) findOne(ctx context.Context, q string, args ...any) (*model.CatalogItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, q, args...))
	if database.NoRows(err) {
		return nil, nil
	}
	return it, err
}

func (r *repo) FindByID(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error) {
	return r.findOne(ctx, `SELECT `+selectCols+` FROM catalog_items WHERE id = $1`, id)
}

func (r *repo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.CatalogItem, error) {
	return r.findOne(ctx, `SELECT `+selectCols+` FROM catalog_items WHERE id = $1 FOR UPDATE`, id)
}

func (r *repo) FindByNameAndCreator(ctx context.Context, t model.ItemType, name, creator string) (*model.CatalogItem, error) {
	const q = `
		SELECT ` + selectCols + `
		FROM catalog_items
		WHERE item_type = $1 AND name = $2 AND creator = $3`
	return r.findOne(ctx, q, t, name, creator)
}

func (r *repo) FindByNameAndSerial(ctx context.Context, t model.ItemType, name string, serial int64) (*model.CatalogItem, error) {
	const q = `
		SELECT ` + selectCols + `
		FROM catalog_items
		WHERE item_type = $1 AND name = $2 AND serial_number = $3`
	return r.findOne(ctx, q, t, name, serial)
}

func (r *repo) Create(ctx context.Context, it *model.CatalogItem) error {
	const q = `
		INSERT INTO catalog_items (id, item_type, name, creator, serial_number, quantity, status, procurement_date, status_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at`
	err := r.q.QueryRow(ctx, q,
		it.ID, it.Type, it.Name, it.Creator, it.SerialNumber, it.Quantity, it.Status, it.ProcurementDate, it.StatusDate,
	).Scan(&it.CreatedAt)
	if _, dup := database.UniqueViolation(err); dup {
		return ErrDuplicate
	}
	return err
}

func (r *repo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ItemStatus, date time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE catalog_items SET status = $2, status_date = $3 WHERE id = $1`, id, status, date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, status model.ItemStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE catalog_items SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	// Guard: never below zero.
	const q = `
		UPDATE catalog_items
		SET quantity = quantity + $2
		WHERE id = $1
		AND quantity + $2 >= 0
		RETURNING quantity`
	var qty int
	err := r.q.QueryRow(ctx, q, id, delta).Scan(&qty)
	if database.NoRows(err) {
		return 0, ErrNegativeQuantity
	}
	return qty, err
}

func (r *repo) List(ctx context.Context, t model.ItemType) ([]model.CatalogItem, error) {
	sql, args, err := dialect.From(tableItems).Prepared(true).
		Select(itemCols...).
		Where(goqu.C("item_type").Eq(string(t))).
		Order(goqu.C("serial_number").Asc()).
		ToSQL()
	if err != nil {
		return nil, err
	}
	return r.queryItems(ctx, sql, args...)
}

func (r *repo) Search(ctx context.Context, sq SearchQuery) ([]model.CatalogItem, error) {
	sql, args, err := BuildSearchQuery(sq)
	if err != nil {
		return nil, err
	}
	return r.queryItems(ctx, sql, args...)
}

// BuildSearchQuery renders the autocomplete query: case-insensitive substring
// match on name or creator within one item type, at most SearchLimit rows.
func BuildSearchQuery(sq SearchQuery) (string, []interface{}, error) {
	var or []exp.Expression
	if s := strings.TrimSpace(sq.ItemQuery); s != "" {
		or = append(or, goqu.C("name").ILike(likePattern(s)))
	}
	if s := strings.TrimSpace(sq.PersonQuery); s != "" {
		or = append(or, goqu.C("creator").ILike(likePattern(s)))
	}

	ds := dialect.From(tableItems).Prepared(true).
		Select(itemCols...).
		Where(goqu.C("item_type").Eq(string(sq.Type)))
	if len(or) > 0 {
		ds = ds.Where(goqu.Or(or...))
	}
	return ds.Order(goqu.C("name").Asc()).Limit(SearchLimit).ToSQL()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string { return "%" + likeEscaper.Replace(s) + "%" }

func (r *repo) queryItems(ctx context.Context, sql string, args ...interface{}) ([]model.CatalogItem, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CatalogItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}
