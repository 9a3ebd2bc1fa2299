package crud

import (
	"context"
	"strconv"

	"gymdesk/internal/auth"
	"gymdesk/internal/db"
)

type Action string

const (
	ActList   Action = "list"
	ActDetail Action = "detail"
	ActCreate Action = "create"
	ActUpdate Action = "update"
	ActDelete Action = "delete"
)

var AllActions = []Action{ActList, ActDetail, ActCreate, ActUpdate, ActDelete}

func (a Action) Capability() auth.Action {
	switch a {
	case ActCreate:
		return auth.ActionAdd
	case ActUpdate:
		return auth.ActionChange
	case ActDelete:
		return auth.ActionDelete
	default:
		return auth.ActionView
	}
}

// Writer persists one entity inside the transaction the handler opened.
type Writer[I any] interface {
	Create(ctx context.Context, q db.Querier, actor *auth.Actor, in *I) (int, error)
	Update(ctx context.Context, q db.Querier, actor *auth.Actor, id int, in *I) error
}

type RelationKind string

const (
	RelationFK       RelationKind = "fk"
	RelationOneToOne RelationKind = "onetoone"
)

// Loader returns one page of related rows.
type Loader func(ctx context.Context, q db.Querier, parentID, limit, offset int) (interface{}, error)

// Counter returns how many related rows exist.
type Counter func(ctx context.Context, q db.Querier, parentID int) (int, error)

// Relation attaches a child collection to a detail response.
type Relation struct {
	Name       string
	Label      string
	Kind       RelationKind
	ForeignKey string
	PageSize   int
	Form       Form
	Count      Counter
	Load       Loader
}

// Resource declares everything the generic layer needs for one entity. T is the
// row read back from the table, I the submitted input.
type Resource[T any, I any] struct {
	Module  string
	Entity  string
	Label   string
	Path    string
	Table   Table
	Fields  []Field
	Form    *Form
	Exclude []string
	Filters func(f *Filter)

	Relations []Relation
	Actions   []Action
	Writer    Writer[I]

	// SuccessRoute is reversed with the saved id for redirect_url.
	SuccessRoute string
	// DeleteRoute is where deletes go when the caller names no target.
	DeleteRoute string

	BeforeRead  func(ctx context.Context) error
	AfterCommit func(ctx context.Context, actor *auth.Actor, id int, action Action)
	// Decorate fills computed fields on every row that list and detail return.
	Decorate func(row *T)
}

func (r *Resource[T, I]) decorate(rows []T) {
	if r.Decorate == nil {
		return
	}
	for i := range rows {
		r.Decorate(&rows[i])
	}
}

func (r *Resource[T, I]) RouteName(a Action) string {
	return r.Module + ":" + r.Entity + "_" + string(a)
}

func (r *Resource[T, I]) Capability(a Action) auth.Capability {
	return auth.Cap(r.Module, a.Capability(), r.Entity)
}

func (r *Resource[T, I]) allows(a Action) bool {
	actions := r.Actions
	if len(actions) == 0 {
		actions = AllActions
	}
	for _, x := range actions {
		if x == a {
			return (a != ActCreate && a != ActUpdate) || r.Writer != nil
		}
	}
	return false
}

// FormSchema returns the explicit form or derives one from the declared fields.
func (r *Resource[T, I]) FormSchema() Form {
	if r.Form != nil {
		return *r.Form
	}
	return DeriveForm(r.Label, r.Fields, r.Exclude)
}

func itoa(n int) string { return strconv.Itoa(n) }
