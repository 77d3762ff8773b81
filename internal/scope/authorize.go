package scope

import "github.com/noah-isme/elplano-go-api/internal/apperror"

// Permission names a mutation guarded by a role constraint.
type Permission string

const (
	PermCreateGroup      Permission = "group.create"
	PermManageGroup      Permission = "group.manage"
	PermManageCourses    Permission = "courses.manage"
	PermCreateInvite     Permission = "invites.create"
	PermCreateEvent      Permission = "events.create"
	PermCreateGroupEvent Permission = "events.create_group"
	PermCreateTask       Permission = "tasks.create"
	PermManageEvents     Permission = "events.manage"
	PermManageTasks      Permission = "tasks.manage"
	PermUpdateAssignment Permission = "assignments.update"
	PermReport           Permission = "reports.create"
	PermAdminister       Permission = "admin"
)

// Authorize checks a mutation against the actor's role before any write happens.
func Authorize(actor Actor, perm Permission) error {
	if !actor.Authenticated() {
		return apperror.Forbidden("authentication required")
	}

	switch perm {
	case PermCreateGroup:
		if !actor.HasStudent() {
			return apperror.Forbidden("student profile required")
		}
		if actor.HasGroup() || actor.President {
			return apperror.Forbidden("create not allowed")
		}
	case PermManageGroup, PermManageCourses, PermCreateInvite, PermCreateGroupEvent:
		if !actor.GroupOwner() {
			return apperror.Forbidden("edit not allowed")
		}
	case PermCreateEvent, PermCreateTask, PermManageEvents, PermManageTasks, PermUpdateAssignment:
		if !actor.HasStudent() {
			return apperror.Forbidden("student profile required")
		}
	case PermReport:
		return nil
	case PermAdminister:
		if !actor.Admin {
			return apperror.Forbidden("administrator required")
		}
	default:
		return apperror.Forbidden("unknown permission")
	}

	return nil
}
