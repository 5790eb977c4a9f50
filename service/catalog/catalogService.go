package catalogsvc

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Rahulstark2/librarymanagement/model"
	"github.com/Rahulstark2/librarymanagement/repository"
	catalogrepo "github.com/Rahulstark2/librarymanagement/repository/catalog"
	"github.com/Rahulstark2/librarymanagement/service/svcerr"
	"github.com/Rahulstark2/librarymanagement/util/dates"
)

type AddInput struct {
	Type            model.ItemType
	Name            string
	Creator         string
	ProcurementDate time.Time
	Quantity        int
}

type StatusInput struct {
	Type         model.ItemType
	Name         string
	SerialNumber int64
	Status       model.ItemStatus
	Date         time.Time
}

type Service interface {
	// Add creates an item and allocates its serial number.
	Add(ctx context.Context, in AddInput) (*model.CatalogItem, error)
	// UpdateStatus sets an administrator status on the item.
	UpdateStatus(ctx context.Context, in StatusInput) (*model.CatalogItem, error)
	List(ctx context.Context, t model.ItemType) ([]model.CatalogItem, error)
}

type service struct{ store repository.Store }

func New(store repository.Store) Service { return &service{store: store} }

func (s *service) Add(ctx context.Context, in AddInput) (*model.CatalogItem, error) {
	in.Name, in.Creator = strings.TrimSpace(in.Name), strings.TrimSpace(in.Creator)
	in.ProcurementDate = dates.Day(in.ProcurementDate)

	var fields []svcerr.FieldError
	if in.Type != model.ItemBook && in.Type != model.ItemMovie {
		fields = append(fields, svcerr.FieldError{Field: "type", Rule: "oneof"})
	}
	if in.Name == "" {
		fields = append(fields, svcerr.FieldError{Field: "name", Rule: "required"})
	}
	if in.Creator == "" {
		fields = append(fields, svcerr.FieldError{Field: creatorField(in.Type), Rule: "required"})
	}
	if in.ProcurementDate.IsZero() {
		fields = append(fields, svcerr.FieldError{Field: "procurementDate", Rule: "required"})
	}
	if in.Quantity < 1 {
		fields = append(fields, svcerr.FieldError{Field: "quantity", Rule: "min"})
	}
	if len(fields) > 0 {
		return nil, svcerr.Invalid("invalid catalog item", fields...)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "item id")
	}
	item := &model.CatalogItem{
		ID:              id,
		Type:            in.Type,
		Name:            in.Name,
		Creator:         in.Creator,
		Quantity:        in.Quantity,
		Status:          model.StatusAvailable,
		ProcurementDate: in.ProcurementDate,
	}
	err = s.store.RunInTx(ctx, func(tx repository.Tx) error {
		existing, err := tx.Catalog().FindByNameAndCreator(ctx, in.Type, in.Name, in.Creator)
		if err != nil {
			return errors.Wrap(err, "find item")
		}
		if existing != nil {
			return svcerr.Newf(svcerr.ErrDuplicateItem, "%s already exists", in.Type)
		}
		if item.SerialNumber, err = tx.Sequences().NextID(ctx, in.Type.SequenceClass()); err != nil {
			return errors.Wrap(err, "allocate serial number")
		}
		if err := tx.Catalog().Create(ctx, item); err != nil {
			if errors.Is(err, catalogrepo.ErrDuplicate) {
				return svcerr.Newf(svcerr.ErrDuplicateItem, "%s already exists", in.Type)
			}
			return errors.Wrap(err, "create item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) UpdateStatus(ctx context.Context, in StatusInput) (*model.CatalogItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Date = dates.Day(in.Date)

	var fields []svcerr.FieldError
	if in.Type != model.ItemBook && in.Type != model.ItemMovie {
		fields = append(fields, svcerr.FieldError{Field: "type", Rule: "oneof"})
	}
	if in.Name == "" {
		fields = append(fields, svcerr.FieldError{Field: "name", Rule: "required"})
	}
	if in.SerialNumber <= 0 {
		fields = append(fields, svcerr.FieldError{Field: "serialNo", Rule: "gt"})
	}
	if !in.Status.Valid() {
		fields = append(fields, svcerr.FieldError{Field: "status", Rule: "oneof"})
	}
	if in.Date.IsZero() {
		fields = append(fields, svcerr.FieldError{Field: "date", Rule: "required"})
	}
	if len(fields) > 0 {
		return nil, svcerr.Invalid("invalid status update", fields...)
	}

	var item *model.CatalogItem
	err := s.store.RunInTx(ctx, func(tx repository.Tx) error {
		found, err := tx.Catalog().FindByNameAndSerial(ctx, in.Type, in.Name, in.SerialNumber)
		if err != nil {
			return errors.Wrap(err, "find item")
		}
		if found == nil {
			return svcerr.Newf(svcerr.ErrItemNotFound, "%s %q with serial number %d not found", in.Type, in.Name, in.SerialNumber)
		}
		if in.Status == model.StatusAvailable && found.Quantity == 0 {
			return svcerr.Invalid("no copies on the shelf", svcerr.FieldError{Field: "status", Rule: "quantity"})
		}
		if err := tx.Catalog().UpdateStatus(ctx, found.ID, in.Status, in.Date); err != nil {
			return errors.Wrap(err, "update status")
		}
		found.Status, found.StatusDate = in.Status, &in.Date
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) List(ctx context.Context, t model.ItemType) ([]model.CatalogItem, error) {
	items, err := s.store.Catalog().List(ctx, t)
	return items, errors.Wrap(err, "list catalog")
}

func creatorField(t model.ItemType) string {
	if t == model.ItemMovie {
		return "director"
	}
	return "author"
}
