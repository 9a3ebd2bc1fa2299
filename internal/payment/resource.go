package payment

import (
	"context"

	"gymdesk/internal/auth"
	"gymdesk/internal/crud"
	"gymdesk/internal/db"
	"gymdesk/internal/notification"
)

const (
	Module = "finance"
	Entity = "payment"
)

var statusLabels = map[string]string{
	StatusPaid:     "Paid",
	StatusPending:  "Pending",
	StatusFailed:   "Failed",
	StatusRefunded: "Refunded",
}

var Fields = []crud.Field{
	{Name: "member_id", Label: "Member", Kind: crud.KindRelation, Required: true, Source: "finance:member_list"},
	{Name: "subscription_plan_id", Label: "Subscription Plan", Kind: crud.KindRelation, Source: "finance:subscriptionplan_list"},
	{Name: "amount", Label: "Amount", Kind: crud.KindDecimal, Required: true},
	{Name: "discount", Label: "Discount", Kind: crud.KindDecimal, Default: "0.00"},
	{Name: "payment_method", Label: "Payment Method", Kind: crud.KindChoice, Default: MethodCash, Choices: crud.Choices(Methods, MethodLabels)},
	{Name: "payment_date", Label: "Payment Date", Kind: crud.KindDate},
	{Name: "reference_number", Label: "Reference Number", Kind: crud.KindText},
	{Name: "notes", Label: "Notes", Kind: crud.KindTextarea},
	{Name: "status", Label: "Status", Kind: crud.KindChoice, Default: StatusPaid, Choices: crud.Choices(Statuses, statusLabels)},
	{Name: "period_start", Label: "Period Start", Kind: crud.KindDate},
	{Name: "period_end", Label: "Period End", Kind: crud.KindDate},
}

func Filters(f *crud.Filter) {
	f.Search("search", "p.reference_number", "u.first_name", "u.last_name")
	f.Int("member", "p.member_id")
	f.Int("plan", "p.subscription_plan_id")
	f.Choice("status", "p.status", Statuses)
	f.Choice("payment_method", "p.payment_method", Methods)
	f.DateFrom("date_from", "p.payment_date::date")
	f.DateTo("date_to", "p.payment_date::date")
	f.Min("min_amount", "p.amount")
	f.Max("max_amount", "p.amount")
}

var table = crud.Table{
	Name:    "payments",
	Select:  listColumns,
	From:    listFrom,
	ID:      "p.id",
	OrderBy: "p.payment_date DESC, p.id DESC",
	Created: "p.created_on",
	Sums: []crud.Sum{
		{Name: "amount", Expr: "p.amount"},
		{Name: "discount", Expr: "p.discount"},
	},
}

// NewResource declares the ledger. onChange runs after every committed write.
func NewResource(svc Service, onChange func(ctx context.Context)) *crud.Resource[Payment, Input] {
	return &crud.Resource[Payment, Input]{
		Module:       Module,
		Entity:       Entity,
		Label:        "Payment",
		Path:         "/payments",
		Table:        table,
		Fields:       Fields,
		Filters:      Filters,
		Writer:       &writer{svc: svc},
		SuccessRoute: "finance:payment_detail",
		AfterCommit: func(ctx context.Context, _ *auth.Actor, id int, action crud.Action) {
			if action == crud.ActCreate {
				svc.SendReceipt(ctx, id, notification.TemplateReceipt)
			}
			if onChange != nil {
				onChange(ctx)
			}
		},
	}
}

// MemberPaymentsRelation lists a member's payments on the member detail.
func MemberPaymentsRelation(repo Repository) crud.Relation {
	return crud.Relation{
		Name:       "payments",
		Label:      "Payments",
		Kind:       crud.RelationFK,
		ForeignKey: "member_id",
		Form:       crud.DeriveForm("Payment", Fields, nil),
		Count: func(ctx context.Context, q db.Querier, memberID int) (int, error) {
			return repo.CountForMember(ctx, q, memberID)
		},
		Load: func(ctx context.Context, q db.Querier, memberID, limit, offset int) (interface{}, error) {
			return repo.ListForMember(ctx, q, memberID, limit, offset)
		},
	}
}

type writer struct {
	svc Service
}

func (w *writer) Create(ctx context.Context, q db.Querier, actor *auth.Actor, in *Input) (int, error) {
	return w.svc.Record(ctx, q, actor, in)
}

func (w *writer) Update(ctx context.Context, q db.Querier, actor *auth.Actor, id int, in *Input) error {
	return w.svc.Amend(ctx, q, actor, id, in)
}
