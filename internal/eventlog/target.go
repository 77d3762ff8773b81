package eventlog

import "fmt"

// Targetable is implemented by every model an event can point at.
type Targetable interface {
	TargetType() string
	TargetID() uint
}

// Target is a polymorphic reference to an entity: a type tag plus an id.
type Target struct {
	Type string `json:"type"`
	ID   uint   `json:"id"`
}

// TargetOf builds a target from a persisted model.
func TargetOf(entity Targetable) Target {
	return Target{Type: entity.TargetType(), ID: entity.TargetID()}
}

func (t Target) valid() error {
	if t.Type == "" {
		return fmt.Errorf("eventlog: target type is required")
	}
	if t.ID == 0 {
		return fmt.Errorf("eventlog: %s target id is required", t.Type)
	}
	return nil
}

func (t Target) String() string {
	return fmt.Sprintf("%s#%d", t.Type, t.ID)
}
