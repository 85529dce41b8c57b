// Package render turns a handed-off invoice record into the printable invoice
// or quotation page.
package render

import (
	"strings"
	"time"

	"github.com/diewo77/studio-billing/internal/catalog"
	"github.com/diewo77/studio-billing/internal/models"
)

// Kind selects the document variant.
type Kind string

const (
	KindInvoice Kind = "invoice"
	KindQuote   Kind = "quote"
)

// ParseKind accepts "invoice" and "quote"; an empty value means invoice.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindInvoice, "":
		return KindInvoice, true
	case KindQuote, "quotation":
		return KindQuote, true
	}
	return "", false
}

// Line is a label and its value in the document header.
type Line struct {
	Label string
	Value string
}

type ServiceRow struct {
	No   int
	Name string
	Unit string
}

type EventBlock struct {
	Name     string
	Services []ServiceRow
}

// Document is the fully resolved view model of one printed page.
type Document struct {
	Kind  Kind
	Title string

	CompanyName string
	Tagline     string
	Location    string
	Footer      string

	Header   []Line
	Dates    []Line
	Events   []EventBlock
	Total    string
	Remarks  string
	Terms    []string
	Thanks   []string
	PrintCTA string

	Deliverables  []string
	Complementary []string

	ShowPayment bool
	Advance     string
	Balance     string
}

// Build resolves inv into a Document dated now. Convert now to the viewer's
// zone before calling.
func Build(kind Kind, inv *models.Invoice, company catalog.Company, now time.Time) Document {
	today := Today(now, nil)
	d := Document{
		Kind:        kind,
		CompanyName: strings.ToUpper(company.Name),
		Tagline:     strings.ToUpper(company.Tagline),
		Location:    company.Location,
		Footer:      "Call Us +91 " + company.Phone + " | " + company.Instagram,
		Total:       inv.Total,
		Remarks:     inv.Remarks,
		Terms:       append([]string(nil), company.TermsAndConditions...),
	}

	prefix := "INVOICE"
	switch kind {
	case KindQuote:
		d.Title = "QUOTATION"
		prefix = "QUOTE"
		d.PrintCTA = "Print Quotation"
		d.Thanks = []string{
			"Thank you for considering our services",
			"This is a quotation for the services mentioned above. Please contact us to confirm your booking.",
		}
	default:
		d.Title = "INVOICE"
		d.PrintCTA = "Print Invoice"
		d.Thanks = []string{"Thank you for your business"}
		d.ShowPayment = true
		d.Advance = inv.Advance
		d.Balance = Balance(inv.Total, inv.Advance)
	}

	d.Header = []Line{
		{prefix + " NO", inv.InvoiceNumber},
		{prefix + " DATE", today},
		{prefix + " TO", strings.ToUpper(inv.Customer.CustomerName)},
		{"MOBILE NO", inv.PhoneNumber},
		{"VENUE", strings.ToUpper(inv.Address)},
	}

	customLabel := inv.CustomDateName
	if customLabel == "" {
		customLabel = "Custom date"
	}
	for _, l := range []Line{
		{"ENGAGEMENT DATE", inv.EngagementDate},
		{"SEER DATE", inv.SeerDate},
		{"WEDDING DATE", inv.WeddingDate},
		{"RECEPTION DATE", inv.ReceptionDate},
		{"EVENT DATE", inv.EventDate},
		{customLabel, inv.CustomDate},
	} {
		if l.Value != "" {
			d.Dates = append(d.Dates, Line{l.Label, FormatDate(l.Value)})
		}
	}
	d.Dates = append(d.Dates, Line{"NO OF EVENTS", inv.NoOfEvents})

	for _, ev := range inv.Events {
		block := EventBlock{Name: strings.ToUpper(ev.EventName)}
		for j, s := range ev.Services {
			block.Services = append(block.Services, ServiceRow{No: j + 1, Name: s.ServiceName, Unit: s.Unit})
		}
		d.Events = append(d.Events, block)
	}
	for _, it := range inv.Deliverables {
		d.Deliverables = append(d.Deliverables, itemLine(it.DeliverableName, it.Unit))
	}
	for _, it := range inv.Complementary {
		d.Complementary = append(d.Complementary, itemLine(it.ComplementaryName, it.Unit))
	}
	return d
}

func itemLine(name, unit string) string {
	if unit == "" {
		return name
	}
	return name + ": " + unit
}

// Filename is a download name for the document, e.g. "invoice-42.html".
func (d Document) Filename(number string) string {
	name := string(d.Kind)
	if n := strings.TrimSpace(number); n != "" {
		name += "-" + strings.Map(safeRune, n)
	}
	return name + ".html"
}

func safeRune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		return r
	}
	return '_'
}
