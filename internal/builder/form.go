package builder

import (
	"net/url"
	"strconv"
	"strings"
)

// Form input names beyond the scalar field ids.
const (
	InputCustomDeliverable = "custom_deliverable"
	InputDeliverable       = "deliverable"
	InputComplementary     = "complementary"
	InputAction            = "action"
)

// EventTypeInput is the select holding the type of event i.
func EventTypeInput(i int) string { return "event_type_" + strconv.Itoa(i) }

// ServiceSelectInput is the "add service" select of event i.
func ServiceSelectInput(i int) string { return "service_select_" + strconv.Itoa(i) }

// ServiceUnitInput is the unit select of service j on event i.
func ServiceUnitInput(i, j int) string {
	return "service_unit_" + strconv.Itoa(i) + "_" + strconv.Itoa(j)
}

// DeliverableUnitInput is the unit select of a catalog deliverable.
func DeliverableUnitInput(id string) string { return "deliverable_unit_" + id }

// ComplementaryUnitInput is the unit select of a complementary item.
func ComplementaryUnitInput(id string) string { return "complementary_unit_" + id }

// BindForm applies a posted builder form. Rows are addressed by the positions
// of the current record, so the form must have been rendered from it.
// Submitting the form counts as leaving the custom deliverable input, so the
// buffered text is committed.
func (b *Builder) BindForm(form url.Values) {
	for _, f := range ScalarFields {
		if vals, ok := form[f]; ok && len(vals) > 0 {
			b.SetField(f, vals[0])
		}
	}

	for i := range b.inv.Events {
		if vals, ok := form[EventTypeInput(i)]; ok && len(vals) > 0 {
			b.SetEventType(i, vals[0])
		}
		for j, svc := range serviceNames(b, i) {
			if vals, ok := form[ServiceUnitInput(i, j)]; ok && len(vals) > 0 {
				b.SetServiceUnit(i, svc, vals[0])
			}
		}
	}

	checkedDeliverables := toSet(form[InputDeliverable])
	for _, item := range b.cat.Deliverables {
		unit := form.Get(DeliverableUnitInput(item.ID))
		switch checked, present := checkedDeliverables[item.ID], b.HasDeliverable(item.ID); {
		case checked && !present:
			b.ToggleDeliverable(item.ID, true, unit)
		case checked && present:
			b.SetDeliverableUnit(item.ID, unit)
		case !checked && present:
			b.ToggleDeliverable(item.ID, false)
		}
	}

	checkedComplementary := toSet(form[InputComplementary])
	for _, item := range b.cat.Complementary {
		unit := form.Get(ComplementaryUnitInput(item.ID))
		switch checked, present := checkedComplementary[item.ID], b.HasComplementary(item.ID); {
		case checked && !present:
			b.ToggleComplementary(item.ID, true, unit)
		case checked && present:
			b.SetComplementaryUnit(item.ID, unit)
		case !checked && present:
			b.ToggleComplementary(item.ID, false)
		}
	}

	if vals, ok := form[InputCustomDeliverable]; ok && len(vals) > 0 {
		b.SetCustomDeliverable(vals[0])
		b.CommitCustomDeliverable()
	}
}

func serviceNames(b *Builder, i int) []string {
	ev := b.event(i)
	if ev == nil {
		return nil
	}
	names := make([]string, len(ev.Services))
	for j, s := range ev.Services {
		names[j] = s.ServiceName
	}
	return names
}

func toSet(values []string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// ActionKind names what a form button does after the form is bound.
type ActionKind string

const (
	ActionSave          ActionKind = "save"
	ActionAddEvent      ActionKind = "add_event"
	ActionRemoveEvent   ActionKind = "remove_event"
	ActionAddService    ActionKind = "add_service"
	ActionRemoveService ActionKind = "remove_service"
	ActionSubmit        ActionKind = "submit"
	ActionQuote         ActionKind = "quote"
)

// Action is a decoded button value.
type Action struct {
	Kind        ActionKind
	Event       int
	ServiceID   string
	ServiceName string
}

// ParseAction decodes values such as "add_event", "remove_event:1",
// "add_service:0" (service id read from the event's select) and
// "remove_service:0:Drone Coverage". An empty value means save.
func ParseAction(raw string, form url.Values) (Action, bool) {
	if raw == "" {
		return Action{Kind: ActionSave}, true
	}
	parts := strings.SplitN(raw, ":", 3)
	kind := ActionKind(parts[0])
	switch kind {
	case ActionSave, ActionAddEvent, ActionSubmit, ActionQuote:
		return Action{Kind: kind}, len(parts) == 1
	case ActionRemoveEvent, ActionAddService:
		if len(parts) != 2 {
			return Action{}, false
		}
		i, err := strconv.Atoi(parts[1])
		if err != nil {
			return Action{}, false
		}
		a := Action{Kind: kind, Event: i}
		if kind == ActionAddService {
			a.ServiceID = form.Get(ServiceSelectInput(i))
		}
		return a, true
	case ActionRemoveService:
		if len(parts) != 3 {
			return Action{}, false
		}
		i, err := strconv.Atoi(parts[1])
		if err != nil {
			return Action{}, false
		}
		return Action{Kind: kind, Event: i, ServiceName: parts[2]}, true
	}
	return Action{}, false
}

// Do runs the row-level part of an action. Submit and quote only need the
// bound form and are handled by Workspace.
func (b *Builder) Do(a Action) {
	switch a.Kind {
	case ActionAddEvent:
		b.AddEventRow()
	case ActionRemoveEvent:
		b.RemoveEventRow(a.Event)
	case ActionAddService:
		b.AddService(a.Event, a.ServiceID)
	case ActionRemoveService:
		b.RemoveService(a.Event, a.ServiceName)
	}
}
