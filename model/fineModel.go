// model/fine.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// FineRecord is an append-only entry written when an overdue loan is settled.
type FineRecord struct {
	ID               uuid.UUID `json:"id"`
	LoanID           uuid.UUID `json:"loan_id"`
	ItemType         ItemType  `json:"item_type"`
	ItemName         string    `json:"item_name"`
	CreatorName      string    `json:"creator_name"`
	SerialNumber     int64     `json:"serial_number"`
	Borrower         string    `json:"borrower"`
	IssueDate        time.Time `json:"issue_date"`
	ReturnDate       time.Time `json:"return_date"`
	ActualReturnDate time.Time `json:"actual_return_date"`
	Fine             int       `json:"fine"`
	Paid             bool      `json:"paid"`
	Remarks          string    `json:"remarks,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
