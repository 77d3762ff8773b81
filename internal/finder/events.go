package finder

import (
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

var eventableTypes = map[string]string{
	"group":    models.EventableGroup,
	"personal": models.EventableStudent,
}

// EventsDefinition lists a student's events. By default it returns appointed
// events (personal plus the group's); "scope": "authored" switches to events
// the student created.
func EventsDefinition() Definition {
	return Definition{
		Name:     "events",
		Resource: scope.ResourceEvents,
		Filters: []Filter{
			{Key: "scope", Kind: KindText, Rule: "oneof=appointed authored"},
			{Key: "type", Kind: KindText, Rule: "oneof=group personal", Apply: func(v Value) Predicate {
				return Equals("events.eventable_type", eventableTypes[v.Text])
			}},
			{Key: "course_id", Kind: KindID, Apply: func(v Value) Predicate {
				return Equals("events.course_id", v.ID)
			}},
		},
		View: func(values Values) scope.View {
			if values.Text("scope") == string(scope.ViewAuthored) {
				return scope.ViewAuthored
			}
			return scope.ViewAppointed
		},
		Sortable: []string{"updated_at", "start_at", "title"},
	}
}

// NewEventsFinder builds the events finder.
func NewEventsFinder(resolver *scope.Resolver, opts Options) *Finder[models.Event] {
	return New[models.Event](resolver, EventsDefinition(), opts)
}
