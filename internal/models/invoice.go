package models

// Service is a billable offering attached to one event.
type Service struct {
	ServiceName string `json:"serviceName"`
	Unit        string `json:"unit"`
}

// Event is one photographed occasion and the services booked for it.
type Event struct {
	EventName string    `json:"eventName"`
	Services  []Service `json:"services"`
}

// Deliverable is a tangible output promised to the customer.
type Deliverable struct {
	DeliverableName string `json:"deliverableName"`
	Unit            string `json:"unit"`
}

// Complementary is a free item offered alongside the deliverables.
type Complementary struct {
	ComplementaryName string `json:"complementaryName"`
	Unit              string `json:"unit"`
}

// Customer holds the billed party.
type Customer struct {
	CustomerName string `json:"customerName"`
}

// Invoice is the draft record edited by the builder and handed to the renderer.
// Amounts and counts are kept as typed by the user; only the renderer parses them.
type Invoice struct {
	InvoiceNumber string   `json:"invoiceNumber"`
	Customer      Customer `json:"customer"`
	Address       string   `json:"address"`
	PhoneNumber   string   `json:"phonenumber"`
	NoOfEvents    string   `json:"noOfEvents"`

	// Dates are YYYY-MM-DD or empty.
	EngagementDate string `json:"engagementDate"`
	SeerDate       string `json:"seerDate"`
	WeddingDate    string `json:"weddingDate"`
	ReceptionDate  string `json:"receptionDate"`
	EventDate      string `json:"eventDate"`
	CustomDateName string `json:"customDateName"`
	CustomDate     string `json:"customDate"`

	Remarks       string          `json:"remarks"`
	Events        []Event         `json:"events"`
	Deliverables  []Deliverable   `json:"deliverables"`
	Complementary []Complementary `json:"complementary"`
	Total         string          `json:"total"`
	Advance       string          `json:"advance"`
}

// NewInvoice returns an empty record with a single blank event row.
func NewInvoice() *Invoice {
	return &Invoice{
		Events:        []Event{{EventName: "", Services: []Service{}}},
		Deliverables:  []Deliverable{},
		Complementary: []Complementary{},
	}
}

// Normalize repairs a decoded record so it satisfies the builder invariants:
// at least one event and non-nil lists.
func (inv *Invoice) Normalize() {
	if len(inv.Events) == 0 {
		inv.Events = []Event{{EventName: "", Services: []Service{}}}
	}
	for i := range inv.Events {
		if inv.Events[i].Services == nil {
			inv.Events[i].Services = []Service{}
		}
	}
	if inv.Deliverables == nil {
		inv.Deliverables = []Deliverable{}
	}
	if inv.Complementary == nil {
		inv.Complementary = []Complementary{}
	}
}

// Clone returns a deep copy so callers can hand the record off without sharing slices.
func (inv *Invoice) Clone() *Invoice {
	out := *inv
	out.Events = make([]Event, len(inv.Events))
	for i, ev := range inv.Events {
		out.Events[i] = Event{EventName: ev.EventName, Services: append([]Service{}, ev.Services...)}
	}
	out.Deliverables = append([]Deliverable{}, inv.Deliverables...)
	out.Complementary = append([]Complementary{}, inv.Complementary...)
	return &out
}

// Draft is the autosaved in-progress state of the builder.
type Draft struct {
	Invoice                *Invoice `json:"invoice"`
	CustomDeliverableInput string   `json:"customDeliverableInput"`
}
