package member

import (
	"context"

	"gymdesk/internal/auth"
	"gymdesk/internal/crud"
	"gymdesk/internal/dates"
	"gymdesk/internal/db"
)

const (
	Module = "finance"
	Entity = "member"
)

const expiringWindowDays = 7

var Fields = []crud.Field{
	{Name: "user_id", Label: "User", Kind: crud.KindRelation, Required: true, Source: "accounts:user_list"},
	{Name: "subscription_plan_id", Label: "Subscription Plan", Kind: crud.KindRelation, Source: "finance:subscriptionplan_list"},
	{Name: "cnic", Label: "CNIC", Kind: crud.KindText},
	{Name: "emergency_contact_name", Label: "Emergency Contact Name", Kind: crud.KindText},
	{Name: "emergency_contact_phone", Label: "Emergency Contact Phone", Kind: crud.KindText},
	{Name: "blood_group", Label: "Blood Group", Kind: crud.KindChoice, Choices: crud.Choices(BloodGroups, nil)},
	{Name: "health_conditions", Label: "Health Conditions", Kind: crud.KindTextarea},
	{Name: "weight", Label: "Weight", Kind: crud.KindDecimal},
	{Name: "height", Label: "Height", Kind: crud.KindDecimal},
	{Name: "subscription_start", Label: "Subscription Start", Kind: crud.KindDate},
	{Name: "subscription_end", Label: "Subscription End", Kind: crud.KindDate},
	{Name: "status", Label: "Status", Kind: crud.KindChoice, Default: StatusPending, Choices: crud.Choices(Statuses, map[string]string{
		StatusActive:    "Active",
		StatusExpired:   "Expired",
		StatusCancelled: "Cancelled",
		StatusPending:   "Pending",
	})},
	{Name: "join_date", Label: "Join Date", Kind: crud.KindDate},
	{Name: "notes", Label: "Notes", Kind: crud.KindTextarea},
	{Name: "is_active", Label: "Active", Kind: crud.KindBool, Default: true},
}

func filters(svc Service) func(f *crud.Filter) {
	return func(f *crud.Filter) {
		f.Search("search", "u.first_name", "u.last_name", "u.email", "m.cnic", "u.phone_number")
		f.Choice("status", "m.status", Statuses)
		f.Int("plan", "m.subscription_plan_id")
		f.Choice("blood_group", "m.blood_group", BloodGroups)
		f.Bool("is_active", "m.is_active")

		if f.Get("expiring_soon") == "true" {
			today := svc.Today()
			f.Where("m.subscription_end BETWEEN ? AND ?", today, dates.AddDays(today, expiringWindowDays))
		}
	}
}

// NewResource declares members. Relations are supplied by the packages that own
// the related rows.
func NewResource(repo Repository, svc Service, onChange func(ctx context.Context), relations ...crud.Relation) *crud.Resource[Member, Input] {
	return &crud.Resource[Member, Input]{
		Module: Module,
		Entity: Entity,
		Label:  "Member",
		Path:   "/members",
		Table: crud.Table{
			Name:    "members",
			Select:  listColumns,
			From:    listFrom,
			ID:      "m.id",
			OrderBy: "m.created_on DESC, m.id DESC",
			Created: "m.created_on",
			Active:  "m.is_active",
		},
		Fields:       Fields,
		Filters:      filters(svc),
		Relations:    relations,
		Writer:       &writer{repo: repo, svc: svc},
		SuccessRoute: "finance:member_detail",
		BeforeRead: func(ctx context.Context) error {
			_, err := svc.RefreshStatuses(ctx)
			return err
		},
		AfterCommit: func(ctx context.Context, _ *auth.Actor, _ int, _ crud.Action) {
			if onChange != nil {
				onChange(ctx)
			}
		},
		Decorate: func(m *Member) {
			m.Annotate(svc.Today())
		},
	}
}

type writer struct {
	repo Repository
	svc  Service
}

func (w *writer) Create(ctx context.Context, q db.Querier, _ *auth.Actor, in *Input) (int, error) {
	return w.repo.Create(ctx, q, in, w.svc.Today())
}

func (w *writer) Update(ctx context.Context, q db.Querier, _ *auth.Actor, id int, in *Input) error {
	return w.repo.Update(ctx, q, id, in)
}
