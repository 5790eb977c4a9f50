package admin

import "github.com/Rahulstark2/librarymanagement/util/jsonx"

type AddMembershipReq struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	ContactName    string `json:"contactName" validate:"required"`
	ContactAddress string `json:"contactAddress" validate:"required"`
	AadharCardNo   string `json:"aadharCardNo" validate:"required"`
	StartDate      string `json:"startDate" validate:"required,isodate"`
	EndDate        string `json:"endDate" validate:"required,isodate"`
	MembershipType string `json:"membershipType" validate:"required,oneof='Six Months' 'One Year' 'Two Years'"`
}

type UpdateMembershipReq struct {
	MembershipNumber    jsonx.Int `json:"membershipNumber" validate:"required,gt=0"`
	StartDate           string    `json:"startDate" validate:"required,isodate"`
	EndDate             string    `json:"endDate" validate:"required,isodate"`
	MembershipExtension string    `json:"membershipExtension" validate:"omitempty,oneof='Six Months' 'One Year' 'Two Years'"`
	MembershipRemove    bool      `json:"membershipRemove"`
}

// AddItemReq carries author for books and director for movies.
type AddItemReq struct {
	Type            string `json:"type" validate:"required,itemtype"`
	Name            string `json:"name" validate:"required"`
	Author          string `json:"author"`
	Director        string `json:"director"`
	ProcurementDate string `json:"procurementDate" validate:"required,isodate"`
	Quantity        int    `json:"quantity" validate:"required,min=1"`
}

type UpdateItemReq struct {
	Type     string    `json:"type" validate:"required,itemtype"`
	Name     string    `json:"name" validate:"required"`
	SerialNo jsonx.Int `json:"serialNo" validate:"required,gt=0"`
	Status   string    `json:"status" validate:"required"`
	Date     string    `json:"date" validate:"required,isodate"`
}
