package builder

import (
	"github.com/diewo77/studio-billing/internal/models"
	"github.com/diewo77/studio-billing/validation"
)

// Form field ids accepted by SetField.
const (
	FieldInvoiceNo      = "invoice_no"
	FieldCustomerName   = "customer_name"
	FieldAddress        = "address"
	FieldPhoneNo        = "phone_no"
	FieldEventCount     = "event_count"
	FieldEngagementDate = "engagement_date"
	FieldSeerDate       = "seer_date"
	FieldWeddingDate    = "wedding_date"
	FieldReceptionDate  = "reception_date"
	FieldEventDate      = "event_date"
	FieldCustomDateName = "custom_date_name"
	FieldCustomDate     = "custom_date"
	FieldRemarks        = "remarks"
	FieldTotal          = "total_amount"
	FieldAdvance        = "advance_amount"
)

// ScalarFields lists every field id in form order.
var ScalarFields = []string{
	FieldInvoiceNo, FieldCustomerName, FieldAddress, FieldPhoneNo, FieldEventCount,
	FieldEngagementDate, FieldSeerDate, FieldWeddingDate, FieldReceptionDate, FieldEventDate,
	FieldCustomDateName, FieldCustomDate, FieldRemarks, FieldTotal, FieldAdvance,
}

// DateFields are rendered as date inputs.
var DateFields = map[string]bool{
	FieldEngagementDate: true,
	FieldSeerDate:       true,
	FieldWeddingDate:    true,
	FieldReceptionDate:  true,
	FieldEventDate:      true,
	FieldCustomDate:     true,
}

func fieldPtr(inv *models.Invoice, name string) *string {
	switch name {
	case FieldInvoiceNo:
		return &inv.InvoiceNumber
	case FieldCustomerName:
		return &inv.Customer.CustomerName
	case FieldAddress:
		return &inv.Address
	case FieldPhoneNo:
		return &inv.PhoneNumber
	case FieldEventCount:
		return &inv.NoOfEvents
	case FieldEngagementDate:
		return &inv.EngagementDate
	case FieldSeerDate:
		return &inv.SeerDate
	case FieldWeddingDate:
		return &inv.WeddingDate
	case FieldReceptionDate:
		return &inv.ReceptionDate
	case FieldEventDate:
		return &inv.EventDate
	case FieldCustomDateName:
		return &inv.CustomDateName
	case FieldCustomDate:
		return &inv.CustomDate
	case FieldRemarks:
		return &inv.Remarks
	case FieldTotal:
		return &inv.Total
	case FieldAdvance:
		return &inv.Advance
	}
	return nil
}

// SetField stores value verbatim in the named field. It reports false for an
// unknown field id.
func (b *Builder) SetField(name, value string) bool {
	p := fieldPtr(b.inv, name)
	if p == nil {
		return false
	}
	*p = value
	return true
}

// Field returns the current value of a scalar field.
func (b *Builder) Field(name string) string {
	if p := fieldPtr(b.inv, name); p != nil {
		return *p
	}
	return ""
}

// Validate reports non-blocking warnings about malformed dates and amounts.
func (b *Builder) Validate() validation.Violations {
	v := make(validation.Violations)
	for _, f := range ScalarFields {
		if DateFields[f] {
			validation.ISODate(f, b.Field(f), v)
		}
	}
	validation.Amount(FieldTotal, b.inv.Total, v)
	validation.Amount(FieldAdvance, b.inv.Advance, v)
	return v
}
