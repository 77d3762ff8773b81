package finder

import (
	"github.com/noah-isme/elplano-go-api/internal/models"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

// BugReportsDefinition lists the actor's own bug reports.
func BugReportsDefinition() Definition {
	return Definition{
		Name:     "bug_reports",
		Resource: scope.ResourceBugReports,
		Filters:  reportFilters("bug_reports"),
		Sortable: []string{"updated_at"},
	}
}

// AbuseReportsDefinition lists abuse reports the actor filed, or with
// "view": "targeting" the reports filed against the actor.
func AbuseReportsDefinition() Definition {
	return Definition{
		Name:     "abuse_reports",
		Resource: scope.ResourceAbuseReports,
		Filters: append([]Filter{
			{Key: "view", Kind: KindText, Rule: "oneof=authored targeting"},
		}, reportFilters("abuse_reports")...),
		View: func(values Values) scope.View {
			if values.Text("view") == string(scope.ViewTargeting) {
				return scope.ViewTargeting
			}
			return scope.ViewAuthored
		},
		Sortable: []string{"updated_at"},
	}
}

// AdminBugReportsDefinition lists every bug report for administrators.
func AdminBugReportsDefinition() Definition {
	return Definition{
		Name:     "admin_bug_reports",
		Resource: scope.ResourceAdminBugReports,
		Filters: append(reportFilters("bug_reports"), Filter{
			Key: "user_id", Kind: KindID, Apply: func(v Value) Predicate {
				return Equals("bug_reports.reporter_id", v.ID)
			},
		}),
		Sortable: []string{"updated_at"},
	}
}

// AdminAbuseReportsDefinition lists every abuse report for administrators.
func AdminAbuseReportsDefinition() Definition {
	return Definition{
		Name:     "admin_abuse_reports",
		Resource: scope.ResourceAdminAbuseReports,
		Filters: append(reportFilters("abuse_reports"),
			Filter{Key: "reporter_id", Kind: KindID, Apply: func(v Value) Predicate {
				return Equals("abuse_reports.reporter_id", v.ID)
			}},
			Filter{Key: "user_id", Kind: KindID, Apply: func(v Value) Predicate {
				return Equals("abuse_reports.user_id", v.ID)
			}},
		),
		Sortable: []string{"updated_at"},
	}
}

func reportFilters(table string) []Filter {
	return []Filter{
		{Key: "search", Kind: KindText, Rule: "max=200", Apply: func(v Value) Predicate {
			return FuzzySearch(v.Text, table+".message")
		}},
		{Key: "created_after", Kind: KindTime, Apply: func(v Value) Predicate {
			return RangeAfterOrEqual(table+".created_at", v.Time)
		}},
		{Key: "created_before", Kind: KindTime, Apply: func(v Value) Predicate {
			return RangeBefore(table+".created_at", v.Time)
		}},
	}
}

// NewBugReportsFinder builds the finder over the actor's bug reports.
func NewBugReportsFinder(resolver *scope.Resolver, opts Options) *Finder[models.BugReport] {
	return New[models.BugReport](resolver, BugReportsDefinition(), opts)
}

// NewAbuseReportsFinder builds the finder over the actor's abuse reports.
func NewAbuseReportsFinder(resolver *scope.Resolver, opts Options) *Finder[models.AbuseReport] {
	return New[models.AbuseReport](resolver, AbuseReportsDefinition(), opts)
}

// NewAdminBugReportsFinder builds the administrator's bug report finder.
func NewAdminBugReportsFinder(resolver *scope.Resolver, opts Options) *Finder[models.BugReport] {
	return New[models.BugReport](resolver, AdminBugReportsDefinition(), opts)
}

// NewAdminAbuseReportsFinder builds the administrator's abuse report finder.
func NewAdminAbuseReportsFinder(resolver *scope.Resolver, opts Options) *Finder[models.AbuseReport] {
	return New[models.AbuseReport](resolver, AdminAbuseReportsDefinition(), opts)
}
