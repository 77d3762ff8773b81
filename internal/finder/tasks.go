package finder

import (
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

// Task expiration scopes.
const (
	ExpirationToday     = "today"
	ExpirationTomorrow  = "tomorrow"
	ExpirationUpcoming  = "upcoming"
	ExpirationOutOfDate = "out_of_date"
)

// TasksDefinition lists tasks. Authored tasks are the default view.
//
// "accomplished" only means something for appointed work, so a request
// carrying accomplished=true without an explicit "appointed" key is served
// from the appointed view. In the authored view the key is ignored.
func TasksDefinition(now func() time.Time) Definition {
	return Definition{
		Name:     "tasks",
		Resource: scope.ResourceTasks,
		Filters: []Filter{
			{Key: "appointed", Kind: KindBool},
			{Key: "accomplished", Kind: KindBool},
			{Key: "event_id", Kind: KindID, Apply: func(v Value) Predicate {
				return Equals("tasks.event_id", v.ID)
			}},
			{
				Key:  "expiration",
				Kind: KindText,
				Rule: "oneof=today tomorrow upcoming out_of_date",
				Apply: func(v Value) Predicate {
					return expiration(v.Text, now())
				},
			},
		},
		View:      tasksView,
		Composite: tasksAccomplishment,
		Sortable:  []string{"updated_at", "expired_at"},
	}
}

func tasksView(values Values) scope.View {
	if appointed, ok := values.Bool("appointed"); ok {
		if appointed {
			return scope.ViewAppointed
		}
		return scope.ViewAuthored
	}
	if accomplished, ok := values.Bool("accomplished"); ok && accomplished {
		return scope.ViewAppointed
	}
	return scope.ViewAuthored
}

func tasksAccomplishment(actor scope.Actor, values Values, view scope.View) []Predicate {
	accomplished, ok := values.Bool("accomplished")
	if !ok || view != scope.ViewAppointed {
		return nil
	}

	return []Predicate{func(db *gorm.DB) *gorm.DB {
		done := db.Session(&gorm.Session{NewDB: true}).
			Table("assignments").
			Select("assignments.task_id").
			Where("assignments.student_id = ? AND assignments.accomplished = ?", actor.StudentID, accomplished)
		return db.Where("tasks.id IN (?)", done)
	}}
}

// expiration maps an expiration scope onto expired_at ranges relative to the
// start of the current UTC day.
func expiration(name string, now time.Time) Predicate {
	today := now.UTC().Truncate(24 * time.Hour)
	tomorrow := today.AddDate(0, 0, 1)

	switch name {
	case ExpirationToday:
		return Chain(RangeAfterOrEqual("tasks.expired_at", today), RangeBefore("tasks.expired_at", tomorrow))
	case ExpirationTomorrow:
		return Chain(RangeAfterOrEqual("tasks.expired_at", tomorrow), RangeBefore("tasks.expired_at", tomorrow.AddDate(0, 0, 1)))
	case ExpirationUpcoming:
		return RangeAfterOrEqual("tasks.expired_at", tomorrow)
	case ExpirationOutOfDate:
		return RangeBefore("tasks.expired_at", today)
	default:
		return nil
	}
}

// NewTasksFinder builds the tasks finder.
func NewTasksFinder(resolver *scope.Resolver, opts Options) *Finder[models.Task] {
	opts = opts.withDefaults()
	return New[models.Task](resolver, TasksDefinition(opts.Now), opts)
}
