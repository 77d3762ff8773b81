package scope

// Role is the coarse role of a caller.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleMember    Role = "member"
	RolePresident Role = "president"
	RoleAdmin     Role = "admin"
)

// Actor describes the caller of a finder or a mutation. It is built once per
// request and never changes while the request runs.
type Actor struct {
	UserID    uint
	StudentID uint
	GroupID   *uint
	President bool
	Admin     bool
}

// Anonymous returns an actor without identity.
func Anonymous() Actor {
	return Actor{}
}

// Role returns the strongest role the actor holds.
func (a Actor) Role() Role {
	switch {
	case a.UserID == 0:
		return RoleAnonymous
	case a.Admin:
		return RoleAdmin
	case a.President && a.HasGroup():
		return RolePresident
	default:
		return RoleMember
	}
}

// Authenticated reports whether the actor carries an identity.
func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

// HasStudent reports whether the actor has a student profile.
func (a Actor) HasStudent() bool {
	return a.UserID != 0 && a.StudentID != 0
}

// HasGroup reports whether the actor is a member of a group.
func (a Actor) HasGroup() bool {
	return a.HasStudent() && a.GroupID != nil && *a.GroupID != 0
}

// Group returns the actor's group id, or zero.
func (a Actor) Group() uint {
	if !a.HasGroup() {
		return 0
	}
	return *a.GroupID
}

// GroupOwner reports whether the actor presides over their group.
func (a Actor) GroupOwner() bool {
	return a.HasGroup() && a.President
}
