package finder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
	"github.com/noah-isme/elplano-go-api/internal/observability"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

// Filter declares one key of a finder's vocabulary.
type Filter struct {
	Key  string
	Kind Kind
	// Rule is a validator tag checked against text and list values.
	Rule string
	// Apply turns the normalized value into a predicate. Filters without
	// Apply only steer the view or a composite filter.
	Apply func(Value) Predicate
}

// Definition is the per-entity configuration of a finder.
type Definition struct {
	Name     string
	Resource scope.Resource
	// Filters are applied in declaration order.
	Filters []Filter
	// View picks the variant of the base collection. Nil means the default view.
	View func(Values) scope.View
	// Composite returns predicates for keys whose meaning spans several
	// filters or depends on the chosen view.
	Composite func(actor scope.Actor, values Values, view scope.View) []Predicate
	Sortable  []string
	// DefaultSort overrides DefaultSort when set.
	DefaultSort *Sort
	// MaxPageSize overrides Options.MaxPageSize with a narrower bound.
	MaxPageSize int
}

// Options carries the dependencies and limits shared by all finders.
type Options struct {
	Validator       *validator.Validate
	DefaultPageSize int
	MaxPageSize     int
	Now             func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Validator == nil {
		o.Validator = validator.New(validator.WithRequiredStructEnabled())
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = MaxPageSize
	}
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = DefaultPageSize
	}
	if o.DefaultPageSize > o.MaxPageSize {
		o.DefaultPageSize = o.MaxPageSize
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Result is one page of a finder's output.
type Result[T any] struct {
	Items []T
	Page  PageInfo
}

// Finder runs the filter, sort and paginate pipeline for one entity type.
type Finder[T any] struct {
	def         Definition
	resolver    *scope.Resolver
	opts        Options
	table       string
	sortable    map[string]struct{}
	defaultSort Sort
	maxPageSize int
	tracer      trace.Tracer
}

// New builds a finder from its definition.
func New[T any](resolver *scope.Resolver, def Definition, opts Options) *Finder[T] {
	opts = opts.withDefaults()

	sortable := make(map[string]struct{}, len(def.Sortable)+1)
	sortable["created_at"] = struct{}{}
	for _, field := range def.Sortable {
		sortable[field] = struct{}{}
	}

	defaultSort := DefaultSort
	if def.DefaultSort != nil {
		defaultSort = *def.DefaultSort
	}

	maxPageSize := opts.MaxPageSize
	if def.MaxPageSize > 0 && def.MaxPageSize < maxPageSize {
		maxPageSize = def.MaxPageSize
	}

	return &Finder[T]{
		def:         def,
		resolver:    resolver,
		opts:        opts,
		table:       resolver.Table(def.Resource),
		sortable:    sortable,
		defaultSort: defaultSort,
		maxPageSize: maxPageSize,
		tracer:      observability.Tracer("finder"),
	}
}

// Name returns the finder name used in metrics and spans.
func (f *Finder[T]) Name() string {
	return f.def.Name
}

type plan struct {
	values     Values
	view       scope.View
	predicates []Predicate
	sort       Sort
	page       Page
}

// prepare validates and normalizes the whole filter set before any query runs.
func (f *Finder[T]) prepare(actor scope.Actor, set FilterSet) (plan, error) {
	values := make(Values, len(f.def.Filters))
	for _, filter := range f.def.Filters {
		value, ok, err := normalize(set, filter.Key, filter.Kind)
		if err != nil {
			return plan{}, err
		}
		if !ok {
			continue
		}
		if err := checkRule(f.opts.Validator, filter.Key, filter.Rule, value, filter.Kind); err != nil {
			return plan{}, err
		}
		values[filter.Key] = value
	}

	sort, err := parseSort(set[KeySort], f.sortable, f.defaultSort)
	if err != nil {
		return plan{}, err
	}

	defaultSize := f.opts.DefaultPageSize
	if defaultSize > f.maxPageSize {
		defaultSize = f.maxPageSize
	}
	page, err := parsePage(set[KeyPage], defaultSize, f.maxPageSize)
	if err != nil {
		return plan{}, err
	}

	view := scope.ViewDefault
	if f.def.View != nil {
		view = f.def.View(values)
	}

	predicates := make([]Predicate, 0, len(values)+1)
	for _, filter := range f.def.Filters {
		value, ok := values[filter.Key]
		if !ok || filter.Apply == nil {
			continue
		}
		predicates = append(predicates, filter.Apply(value))
	}
	if f.def.Composite != nil {
		predicates = append(predicates, f.def.Composite(actor, values, view)...)
	}

	return plan{values: values, view: view, predicates: predicates, sort: sort, page: page}, nil
}

// Execute returns the page of entities visible to actor that match set.
func (f *Finder[T]) Execute(ctx context.Context, actor scope.Actor, set FilterSet) (result Result[T], err error) {
	ctx, span := f.tracer.Start(ctx, fmt.Sprintf("finder.%s.execute", f.def.Name),
		trace.WithAttributes(attribute.String("actor.role", string(actor.Role()))))
	start := time.Now()
	defer func() {
		outcome := "ok"
		switch {
		case apperror.IsValidation(err):
			outcome = "invalid"
		case err != nil:
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, "finder failed")
		}
		observability.FinderQueries().WithLabelValues(f.def.Name, outcome).Inc()
		observability.FinderLatency().WithLabelValues(f.def.Name).Observe(time.Since(start).Seconds())
		span.End()
	}()

	p, err := f.prepare(actor, set)
	if err != nil {
		return Result[T]{}, err
	}

	base, err := f.resolver.Resolve(ctx, actor, f.def.Resource, p.view)
	if err != nil {
		return Result[T]{}, err
	}
	query := Chain(p.predicates...)(base)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Result[T]{}, fmt.Errorf("count %s: %w", f.def.Name, err)
	}

	items := make([]T, 0, p.page.Size)
	err = query.
		Order(f.orderBy(p.sort.Field, p.sort.Desc)).
		Order(f.orderBy("id", p.sort.Desc)).
		Offset(p.page.Offset).
		Limit(p.page.Size).
		Find(&items).Error
	if err != nil {
		return Result[T]{}, fmt.Errorf("find %s: %w", f.def.Name, err)
	}

	return Result[T]{Items: items, Page: newPageInfo(p.page, total)}, nil
}

// Find looks up one entity by id anywhere the actor can list it, whichever
// view would surface it.
func (f *Finder[T]) Find(ctx context.Context, actor scope.Actor, id uint) (T, error) {
	base, err := f.resolver.Resolve(ctx, actor, f.def.Resource, scope.ViewAny)
	if err != nil {
		var zero T
		return zero, err
	}
	return f.first(base, id)
}

// FindWith looks up one entity by id through db, typically a transaction, in
// the given view.
func (f *Finder[T]) FindWith(db *gorm.DB, actor scope.Actor, view scope.View, id uint) (T, error) {
	base, err := f.resolver.ResolveWith(db, actor, f.def.Resource, view)
	if err != nil {
		var zero T
		return zero, err
	}
	return f.first(base, id)
}

func (f *Finder[T]) first(base *gorm.DB, id uint) (T, error) {
	var item T
	err := base.Where(clause.Eq{Column: clause.Column{Table: f.table, Name: "id"}, Value: id}).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return item, apperror.ErrNotFound
	}
	if err != nil {
		return item, fmt.Errorf("find %s %d: %w", f.def.Name, id, err)
	}
	return item, nil
}

func (f *Finder[T]) orderBy(field string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{
		Column: clause.Column{Table: f.table, Name: field},
		Desc:   desc,
	}
}
