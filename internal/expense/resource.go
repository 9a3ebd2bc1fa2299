package expense

import (
	"context"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/crud"
	"gymdesk/internal/dates"
	"gymdesk/internal/db"
	"gymdesk/internal/payment"
)

const (
	Module = "finance"
	Entity = "expense"
)

var Fields = []crud.Field{
	{Name: "category", Label: "Category", Kind: crud.KindChoice, Required: true, Choices: crud.Choices(Categories, categoryLabels)},
	{Name: "amount", Label: "Amount", Kind: crud.KindDecimal, Required: true},
	{Name: "description", Label: "Description", Kind: crud.KindTextarea},
	{Name: "expense_date", Label: "Expense Date", Kind: crud.KindDate},
	{Name: "payment_method", Label: "Payment Method", Kind: crud.KindChoice, Default: payment.MethodCash, Choices: crud.Choices(payment.Methods, payment.MethodLabels)},
	{Name: "reference_number", Label: "Reference Number", Kind: crud.KindText},
	{Name: "is_recurring", Label: "Recurring", Kind: crud.KindBool, Default: false},
}

func Filters(f *crud.Filter) {
	f.Search("search", "e.description", "e.reference_number")
	f.Choice("category", "e.category", Categories)
	f.Choice("payment_method", "e.payment_method", payment.Methods)
	f.Bool("is_recurring", "e.is_recurring")
	f.DateFrom("date_from", "e.expense_date")
	f.DateTo("date_to", "e.expense_date")
	f.Min("min_amount", "e.amount")
	f.Max("max_amount", "e.amount")
}

func NewResource(repo Repository, now func() time.Time, onChange func(ctx context.Context)) *crud.Resource[Expense, Input] {
	if now == nil {
		now = time.Now
	}
	return &crud.Resource[Expense, Input]{
		Module: Module,
		Entity: Entity,
		Label:  "Expense",
		Path:   "/expenses",
		Table: crud.Table{
			Name:    "expenses",
			Select:  listColumns,
			From:    listFrom,
			ID:      "e.id",
			OrderBy: "e.expense_date DESC, e.id DESC",
			Created: "e.created_on",
			Sums:    []crud.Sum{{Name: "amount", Expr: "e.amount"}},
		},
		Fields:       Fields,
		Filters:      Filters,
		Writer:       &writer{repo: repo, now: now},
		SuccessRoute: "finance:expense_list",
		AfterCommit: func(ctx context.Context, _ *auth.Actor, _ int, _ crud.Action) {
			if onChange != nil {
				onChange(ctx)
			}
		},
	}
}

type writer struct {
	repo Repository
	now  func() time.Time
}

// Create records the acting user as the one who added the expense.
func (w *writer) Create(ctx context.Context, q db.Querier, actor *auth.Actor, in *Input) (int, error) {
	var addedBy *int
	if actor != nil {
		id := actor.UserID
		addedBy = &id
	}
	return w.repo.Create(ctx, q, in, addedBy, dates.Today(w.now()))
}

func (w *writer) Update(ctx context.Context, q db.Querier, _ *auth.Actor, id int, in *Input) error {
	return w.repo.Update(ctx, q, id, in)
}
