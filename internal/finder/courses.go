package finder

import (
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

// CoursesDefinition lists the courses of the actor's group.
func CoursesDefinition() Definition {
	return Definition{
		Name:     "courses",
		Resource: scope.ResourceCourses,
		Filters: []Filter{
			{Key: "title", Kind: KindText, Apply: func(v Value) Predicate {
				return CaseInsensitiveEquals("courses.title", v.Text)
			}},
			{Key: "active", Kind: KindBool, Apply: func(v Value) Predicate {
				return Equals("courses.active", v.Bool)
			}},
			{Key: "search", Kind: KindText, Rule: "max=100", Apply: func(v Value) Predicate {
				return FuzzySearch(v.Text, "courses.title")
			}},
		},
		Sortable: []string{"updated_at", "title"},
	}
}

// NewCoursesFinder builds the group courses finder.
func NewCoursesFinder(resolver *scope.Resolver, opts Options) *Finder[models.Course] {
	return New[models.Course](resolver, CoursesDefinition(), opts)
}
