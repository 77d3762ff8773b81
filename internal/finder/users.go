package finder

import (
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

// UsersDefinition is the administrator's user listing.
func UsersDefinition() Definition {
	return Definition{
		Name:     "users",
		Resource: scope.ResourceUsers,
		Filters: []Filter{
			{Key: "status", Kind: KindText, Rule: "oneof=active banned confirmed admins", Apply: func(v Value) Predicate {
				return userStatus(v.Text)
			}},
			{Key: "username", Kind: KindList, Rule: "max=100", Apply: func(v Value) Predicate {
				return CaseInsensitiveIn("users.username", v.List)
			}},
			{Key: "search", Kind: KindText, Rule: "max=100", Apply: func(v Value) Predicate {
				return FuzzySearch(v.Text, "users.username", "users.email")
			}},
		},
		Sortable: []string{"updated_at", "username", "email"},
	}
}

func userStatus(status string) Predicate {
	switch status {
	case models.UserStatusActive:
		return IsNull("users.banned_at", false)
	case models.UserStatusBanned:
		return IsNull("users.banned_at", true)
	case models.UserStatusConfirmed:
		return IsNull("users.confirmed_at", true)
	case models.UserStatusAdmins:
		return Equals("users.admin", true)
	default:
		return nil
	}
}

// NewUsersFinder builds the admin users finder.
func NewUsersFinder(resolver *scope.Resolver, opts Options) *Finder[models.User] {
	return New[models.User](resolver, UsersDefinition(), opts)
}
