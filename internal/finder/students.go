package finder

import (
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

// StudentsDefinition lists classmates of the actor's group.
func StudentsDefinition() Definition {
	return Definition{
		Name:     "students",
		Resource: scope.ResourceStudents,
		Filters: []Filter{
			{Key: "search", Kind: KindText, Rule: "max=100", Apply: func(v Value) Predicate {
				return FuzzySearch(v.Text, "students.full_name", "students.email")
			}},
			{Key: "president", Kind: KindBool, Apply: func(v Value) Predicate {
				return Equals("students.president", v.Bool)
			}},
		},
		Sortable: []string{"updated_at", "full_name"},
	}
}

// NewStudentsFinder builds the group students finder.
func NewStudentsFinder(resolver *scope.Resolver, opts Options) *Finder[models.Student] {
	return New[models.Student](resolver, StudentsDefinition(), opts)
}
