package scope

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/elplano-go-api/internal/models"
)

// Resource names a collection a finder can be built over.
type Resource string

const (
	ResourceEvents            Resource = "events"
	ResourceTasks             Resource = "tasks"
	ResourceStudents          Resource = "students"
	ResourceCourses           Resource = "courses"
	ResourceUsers             Resource = "users"
	ResourceBugReports        Resource = "bug_reports"
	ResourceAbuseReports      Resource = "abuse_reports"
	ResourceAdminBugReports   Resource = "admin_bug_reports"
	ResourceAdminAbuseReports Resource = "admin_abuse_reports"
	ResourceActivityEvents    Resource = "activity_events"
	ResourceAuditEvents       Resource = "audit_events"
)

// View selects a variant of a resource's base collection.
type View string

const (
	ViewDefault   View = ""
	ViewAppointed View = "appointed"
	ViewAuthored  View = "authored"
	ViewTargeting View = "targeting"
	// ViewAny is the union of every view, used to look up a single record.
	ViewAny View = "any"
)

type rule struct {
	table string
	model func() interface{}
	apply func(db *gorm.DB, actor Actor, view View) *gorm.DB
}

// Resolver narrows base collections to what an actor may see.
type Resolver struct {
	db    *gorm.DB
	rules map[Resource]rule
}

// NewResolver builds a resolver over the given database handle.
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db, rules: defaultRules()}
}

// Table returns the table backing a resource.
func (r *Resolver) Table(resource Resource) string {
	return r.rules[resource].table
}

// Resolve returns the actor's base collection for the resource. Actors that
// cannot see anything get an empty collection, never an error.
func (r *Resolver) Resolve(ctx context.Context, actor Actor, resource Resource, view View) (*gorm.DB, error) {
	return r.ResolveWith(r.db.WithContext(ctx), actor, resource, view)
}

// ResolveWith is Resolve over a caller supplied handle, typically a transaction.
func (r *Resolver) ResolveWith(db *gorm.DB, actor Actor, resource Resource, view View) (*gorm.DB, error) {
	entry, ok := r.rules[resource]
	if !ok {
		return nil, fmt.Errorf("scope: unknown resource %q", resource)
	}

	base := db.Model(entry.model())
	if !actor.Authenticated() {
		return none(base), nil
	}

	return entry.apply(base, actor, view), nil
}

func none(db *gorm.DB) *gorm.DB {
	return db.Where("1 = 0")
}

func defaultRules() map[Resource]rule {
	return map[Resource]rule{
		ResourceEvents: {
			table: "events",
			model: func() interface{} { return &models.Event{} },
			apply: eventsScope,
		},
		ResourceTasks: {
			table: "tasks",
			model: func() interface{} { return &models.Task{} },
			apply: tasksScope,
		},
		ResourceStudents: {
			table: "students",
			model: func() interface{} { return &models.Student{} },
			apply: groupScope("students"),
		},
		ResourceCourses: {
			table: "courses",
			model: func() interface{} { return &models.Course{} },
			apply: groupScope("courses"),
		},
		ResourceUsers: {
			table: "users",
			model: func() interface{} { return &models.User{} },
			apply: adminScope,
		},
		ResourceBugReports: {
			table: "bug_reports",
			model: func() interface{} { return &models.BugReport{} },
			apply: func(db *gorm.DB, actor Actor, _ View) *gorm.DB {
				return db.Where("bug_reports.reporter_id = ?", actor.UserID)
			},
		},
		ResourceAdminBugReports: {
			table: "bug_reports",
			model: func() interface{} { return &models.BugReport{} },
			apply: adminScope,
		},
		ResourceAbuseReports: {
			table: "abuse_reports",
			model: func() interface{} { return &models.AbuseReport{} },
			apply: func(db *gorm.DB, actor Actor, view View) *gorm.DB {
				switch view {
				case ViewTargeting:
					return db.Where("abuse_reports.user_id = ?", actor.UserID)
				case ViewAny:
					return db.Where("(abuse_reports.reporter_id = ? OR abuse_reports.user_id = ?)", actor.UserID, actor.UserID)
				}
				return db.Where("abuse_reports.reporter_id = ?", actor.UserID)
			},
		},
		ResourceAdminAbuseReports: {
			table: "abuse_reports",
			model: func() interface{} { return &models.AbuseReport{} },
			apply: adminScope,
		},
		ResourceActivityEvents: {
			table: "activity_events",
			model: func() interface{} { return &models.ActivityEvent{} },
			apply: func(db *gorm.DB, actor Actor, _ View) *gorm.DB {
				return db.Where("activity_events.author_id = ?", actor.UserID)
			},
		},
		ResourceAuditEvents: {
			table: "audit_events",
			model: func() interface{} { return &models.AuditEvent{} },
			apply: func(db *gorm.DB, actor Actor, _ View) *gorm.DB {
				return db.Where("audit_events.author_id = ?", actor.UserID)
			},
		},
	}
}

// eventsScope returns personal events plus the group's events (appointed), or
// every event the student created (authored).
func eventsScope(db *gorm.DB, actor Actor, view View) *gorm.DB {
	if !actor.HasStudent() {
		return none(db)
	}

	switch view {
	case ViewAuthored:
		return db.Where("events.creator_id = ?", actor.StudentID)
	case ViewAny:
		query, args := appointedEvents(actor)
		return db.Where("("+query+" OR events.creator_id = ?)", append(args, actor.StudentID)...)
	}

	query, args := appointedEvents(actor)
	return db.Where(query, args...)
}

func appointedEvents(actor Actor) (string, []interface{}) {
	if !actor.HasGroup() {
		return "(events.eventable_type = ? AND events.eventable_id = ?)", []interface{}{models.EventableStudent, actor.StudentID}
	}
	return "((events.eventable_type = ? AND events.eventable_id = ?) OR (events.eventable_type = ? AND events.eventable_id = ?))",
		[]interface{}{models.EventableStudent, actor.StudentID, models.EventableGroup, actor.Group()}
}

const assignedTasks = "tasks.id IN (SELECT assignments.task_id FROM assignments WHERE assignments.student_id = ?)"

// tasksScope returns authored tasks by default and assigned tasks for the
// appointed view.
func tasksScope(db *gorm.DB, actor Actor, view View) *gorm.DB {
	if !actor.HasStudent() {
		return none(db)
	}

	switch view {
	case ViewAppointed:
		return db.Where(assignedTasks, actor.StudentID)
	case ViewAny:
		return db.Where("(tasks.author_id = ? OR "+assignedTasks+")", actor.StudentID, actor.StudentID)
	}

	return db.Where("tasks.author_id = ?", actor.StudentID)
}

func groupScope(table string) func(db *gorm.DB, actor Actor, view View) *gorm.DB {
	return func(db *gorm.DB, actor Actor, _ View) *gorm.DB {
		if !actor.HasGroup() {
			return none(db)
		}
		return db.Where(table+".group_id = ?", actor.Group())
	}
}

func adminScope(db *gorm.DB, actor Actor, _ View) *gorm.DB {
	if !actor.Admin {
		return none(db)
	}
	return db
}
