package builder

import (
	"errors"
	"fmt"
)

// ErrUnknownOp is returned by Apply for an unrecognised op name.
var ErrUnknownOp = errors.New("builder: unknown op")

// Op is one JSON-encoded state transition, e.g.
//
//	{"op": "addService", "eventIndex": 0, "serviceId": "candid_photo"}
type Op struct {
	Op          string `json:"op"`
	Field       string `json:"field,omitempty"`
	Value       string `json:"value,omitempty"`
	EventIndex  int    `json:"eventIndex,omitempty"`
	ServiceID   string `json:"serviceId,omitempty"`
	ServiceName string `json:"serviceName,omitempty"`
	ID          string `json:"id,omitempty"`
	Checked     bool   `json:"checked,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Text        string `json:"text,omitempty"`
}

// Apply dispatches op to the matching builder method.
func (b *Builder) Apply(op Op) error {
	switch op.Op {
	case "setField":
		if !b.SetField(op.Field, op.Value) {
			return fmt.Errorf("builder: unknown field %q", op.Field)
		}
	case "setEventType":
		b.SetEventType(op.EventIndex, op.Value)
	case "addService":
		b.AddService(op.EventIndex, op.ServiceID)
	case "removeService":
		b.RemoveService(op.EventIndex, op.ServiceName)
	case "setServiceUnit":
		b.SetServiceUnit(op.EventIndex, op.ServiceName, op.Unit)
	case "toggleDeliverable":
		b.ToggleDeliverable(op.ID, op.Checked, op.Unit)
	case "setDeliverableUnit":
		b.SetDeliverableUnit(op.ID, op.Unit)
	case "setCustomDeliverable":
		b.SetCustomDeliverable(op.Text)
	case "commitCustomDeliverable":
		b.CommitCustomDeliverable()
	case "toggleComplementary":
		b.ToggleComplementary(op.ID, op.Checked, op.Unit)
	case "setComplementaryUnit":
		b.SetComplementaryUnit(op.ID, op.Unit)
	case "addEventRow":
		b.AddEventRow()
	case "removeEventRow":
		b.RemoveEventRow(op.EventIndex)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, op.Op)
	}
	return nil
}
