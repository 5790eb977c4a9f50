// model/catalog.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ItemType string

const (
	ItemBook  ItemType = "Book"
	ItemMovie ItemType = "Movie"
)

// ParseItemType accepts "book", "Book", "MOVIE", ...
func ParseItemType(s string) (ItemType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "book":
		return ItemBook, true
	case "movie":
		return ItemMovie, true
	}
	return "", false
}

// SequenceClass is the identifier allocator class used for serial numbers of this type.
func (t ItemType) SequenceClass() SequenceClass {
	if t == ItemMovie {
		return SequenceMovie
	}
	return SequenceBook
}

type ItemStatus string

const (
	StatusAvailable   ItemStatus = "Available"
	StatusUnavailable ItemStatus = "Unavailable"
	StatusRemoved     ItemStatus = "Removed"
	StatusOnRepair    ItemStatus = "On repair"
	StatusToReplace   ItemStatus = "To replace"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusUnavailable, StatusRemoved, StatusOnRepair, StatusToReplace:
		return true
	}
	return false
}

// IsOverride reports whether the status is an administrator override that
// circulation never changes on its own.
func (s ItemStatus) IsOverride() bool {
	return s == StatusRemoved || s == StatusOnRepair || s == StatusToReplace
}

// CatalogItem is a book or a movie. Creator holds the author for books and the
// director for movies.
type CatalogItem struct {
	ID              uuid.UUID  `json:"id"`
	Type            ItemType   `json:"type"`
	Name            string     `json:"name"`
	Creator         string     `json:"creator"`
	SerialNumber    int64      `json:"serial_number"`
	Quantity        int        `json:"quantity"`
	Status          ItemStatus `json:"status"`
	ProcurementDate time.Time  `json:"procurement_date"`
	StatusDate      *time.Time `json:"status_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Issuable reports whether circulation may hand out a copy right now.
func (i CatalogItem) Issuable() bool {
	return i.Status == StatusAvailable && i.Quantity > 0
}

type SequenceClass string

const (
	SequenceMembership SequenceClass = "membership"
	SequenceBook       SequenceClass = "book"
	SequenceMovie      SequenceClass = "movie"
)
