// Package builder implements the invoice form: named state transitions over the
// draft record, the draft autosave workspace and the hand-off to the renderer.
package builder

import (
	"strings"

	"github.com/diewo77/studio-billing/internal/catalog"
	"github.com/diewo77/studio-billing/internal/models"
)

// CustomPrefix marks the single free-text deliverable entry.
const CustomPrefix = "Custom: "

// Builder owns one draft record. Every method is a synchronous state transition;
// unresolved ids and out-of-range indices leave the record untouched.
type Builder struct {
	cat         *catalog.Catalog
	inv         *models.Invoice
	customInput string
}

// New returns a builder holding an empty record.
func New(cat *catalog.Catalog) *Builder {
	return &Builder{cat: cat, inv: models.NewInvoice()}
}

// Invoice exposes the current record. Callers must not retain it across transitions.
func (b *Builder) Invoice() *models.Invoice { return b.inv }

// CustomInput returns the buffered custom deliverable text.
func (b *Builder) CustomInput() string { return b.customInput }

// Catalog returns the reference data the builder resolves ids against.
func (b *Builder) Catalog() *catalog.Catalog { return b.cat }

// Draft snapshots the builder state for autosave.
func (b *Builder) Draft() models.Draft {
	return models.Draft{Invoice: b.inv.Clone(), CustomDeliverableInput: b.customInput}
}

// Restore replaces the builder state with a saved snapshot.
func (b *Builder) Restore(d models.Draft) {
	if d.Invoice == nil {
		b.inv = models.NewInvoice()
	} else {
		b.inv = d.Invoice.Clone()
		b.inv.Normalize()
	}
	b.customInput = d.CustomDeliverableInput
}

// Reset drops all entered data, including the custom deliverable buffer.
func (b *Builder) Reset() {
	b.inv = models.NewInvoice()
	b.customInput = ""
}

func (b *Builder) event(i int) *models.Event {
	if i < 0 || i >= len(b.inv.Events) {
		return nil
	}
	return &b.inv.Events[i]
}

// SetEventType renames the event at index; its services are kept.
func (b *Builder) SetEventType(index int, value string) {
	if ev := b.event(index); ev != nil {
		ev.EventName = value
	}
}

// AddService appends the catalog service to the event unless it is already there.
func (b *Builder) AddService(eventIndex int, serviceID string) {
	ev := b.event(eventIndex)
	if ev == nil || serviceID == "" {
		return
	}
	svc, ok := b.cat.Service(serviceID)
	if !ok {
		return
	}
	for _, s := range ev.Services {
		if s.ServiceName == svc.Name {
			return
		}
	}
	ev.Services = append(ev.Services, models.Service{ServiceName: svc.Name, Unit: ""})
}

// RemoveService drops the service with the given name from the event.
func (b *Builder) RemoveService(eventIndex int, serviceName string) {
	ev := b.event(eventIndex)
	if ev == nil {
		return
	}
	kept := ev.Services[:0]
	for _, s := range ev.Services {
		if s.ServiceName != serviceName {
			kept = append(kept, s)
		}
	}
	ev.Services = kept
}

// SetServiceUnit updates the unit of a service already on the event.
func (b *Builder) SetServiceUnit(eventIndex int, serviceName, unit string) {
	ev := b.event(eventIndex)
	if ev == nil {
		return
	}
	for i := range ev.Services {
		if ev.Services[i].ServiceName == serviceName {
			ev.Services[i].Unit = unit
			return
		}
	}
}

// AddEventRow appends a blank event.
func (b *Builder) AddEventRow() {
	b.inv.Events = append(b.inv.Events, models.Event{EventName: "", Services: []models.Service{}})
}

// RemoveEventRow removes the event at index, never the last remaining one.
func (b *Builder) RemoveEventRow(index int) {
	if len(b.inv.Events) <= 1 || b.event(index) == nil {
		return
	}
	b.inv.Events = append(b.inv.Events[:index], b.inv.Events[index+1:]...)
}

// HasDeliverable reports whether the catalog deliverable is checked.
func (b *Builder) HasDeliverable(id string) bool {
	_, ok := b.deliverableIndex(id)
	return ok
}

// DeliverableUnit returns the unit of a checked deliverable.
func (b *Builder) DeliverableUnit(id string) string {
	if i, ok := b.deliverableIndex(id); ok {
		return b.inv.Deliverables[i].Unit
	}
	return ""
}

func (b *Builder) deliverableIndex(id string) (int, bool) {
	item, ok := b.cat.Deliverable(id)
	if !ok {
		return -1, false
	}
	for i, d := range b.inv.Deliverables {
		if d.DeliverableName == item.Name {
			return i, true
		}
	}
	return -1, false
}

// ToggleDeliverable checks or unchecks a catalog deliverable. An optional unit
// is recorded when the deliverable is added.
func (b *Builder) ToggleDeliverable(id string, checked bool, unit ...string) {
	item, ok := b.cat.Deliverable(id)
	if !ok {
		return
	}
	if checked {
		if _, present := b.deliverableIndex(id); present {
			return
		}
		u := ""
		if len(unit) > 0 {
			u = unit[0]
		}
		b.inv.Deliverables = append(b.inv.Deliverables, models.Deliverable{DeliverableName: item.Name, Unit: u})
		return
	}
	kept := b.inv.Deliverables[:0]
	for _, d := range b.inv.Deliverables {
		if d.DeliverableName != item.Name {
			kept = append(kept, d)
		}
	}
	b.inv.Deliverables = kept
}

// SetDeliverableUnit sets the unit of a deliverable, checking it first if needed.
func (b *Builder) SetDeliverableUnit(id, unit string) {
	if _, ok := b.cat.Deliverable(id); !ok {
		return
	}
	if i, present := b.deliverableIndex(id); present {
		b.inv.Deliverables[i].Unit = unit
		return
	}
	b.ToggleDeliverable(id, true, unit)
}

// SetCustomDeliverable buffers the free-text deliverable without touching the list.
func (b *Builder) SetCustomDeliverable(text string) {
	b.customInput = text
}

// CommitCustomDeliverable writes the buffered text as the single "Custom: ..."
// entry, or removes that entry when the trimmed text is empty.
func (b *Builder) CommitCustomDeliverable() {
	text := strings.TrimSpace(b.customInput)
	if text == "" {
		kept := b.inv.Deliverables[:0]
		for _, d := range b.inv.Deliverables {
			if !isCustom(d.DeliverableName) {
				kept = append(kept, d)
			}
		}
		b.inv.Deliverables = kept
		return
	}
	name := CustomPrefix + text
	replaced := false
	kept := b.inv.Deliverables[:0]
	for _, d := range b.inv.Deliverables {
		if isCustom(d.DeliverableName) {
			if replaced {
				continue
			}
			d.DeliverableName = name
			replaced = true
		}
		kept = append(kept, d)
	}
	b.inv.Deliverables = kept
	if !replaced {
		b.inv.Deliverables = append(b.inv.Deliverables, models.Deliverable{DeliverableName: name, Unit: ""})
	}
}

func isCustom(name string) bool {
	return strings.HasPrefix(name, strings.TrimSpace(CustomPrefix))
}

// HasComplementary reports whether the complementary item is checked.
func (b *Builder) HasComplementary(id string) bool {
	_, ok := b.complementaryIndex(id)
	return ok
}

// ComplementaryUnit returns the unit of a checked complementary item.
func (b *Builder) ComplementaryUnit(id string) string {
	if i, ok := b.complementaryIndex(id); ok {
		return b.inv.Complementary[i].Unit
	}
	return ""
}

func (b *Builder) complementaryIndex(id string) (int, bool) {
	item, ok := b.cat.ComplementaryItem(id)
	if !ok {
		return -1, false
	}
	for i, c := range b.inv.Complementary {
		if c.ComplementaryName == item.Name {
			return i, true
		}
	}
	return -1, false
}

// ToggleComplementary mirrors ToggleDeliverable for the complementary catalog.
func (b *Builder) ToggleComplementary(id string, checked bool, unit ...string) {
	item, ok := b.cat.ComplementaryItem(id)
	if !ok {
		return
	}
	if checked {
		if _, present := b.complementaryIndex(id); present {
			return
		}
		u := ""
		if len(unit) > 0 {
			u = unit[0]
		}
		b.inv.Complementary = append(b.inv.Complementary, models.Complementary{ComplementaryName: item.Name, Unit: u})
		return
	}
	kept := b.inv.Complementary[:0]
	for _, c := range b.inv.Complementary {
		if c.ComplementaryName != item.Name {
			kept = append(kept, c)
		}
	}
	b.inv.Complementary = kept
}

// SetComplementaryUnit mirrors SetDeliverableUnit, including the implicit check.
func (b *Builder) SetComplementaryUnit(id, unit string) {
	if _, ok := b.cat.ComplementaryItem(id); !ok {
		return
	}
	if i, present := b.complementaryIndex(id); present {
		b.inv.Complementary[i].Unit = unit
		return
	}
	b.ToggleComplementary(id, true, unit)
}
