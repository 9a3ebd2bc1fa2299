package plan

import (
	"context"

	"gymdesk/internal/auth"
	"gymdesk/internal/crud"
	"gymdesk/internal/db"
)

const (
	Module = "finance"
	Entity = "subscriptionplan"
)

const msgReferenced = "This plan is already used by payments. Only the description and active status can change; deactivate it and create a new plan instead."

var Fields = []crud.Field{
	{Name: "name", Label: "Name", Kind: crud.KindText, Required: true},
	{Name: "duration_days", Label: "Duration Days", Kind: crud.KindNumber, Required: true},
	{Name: "price", Label: "Price", Kind: crud.KindDecimal, Required: true},
	{Name: "description", Label: "Description", Kind: crud.KindTextarea},
	{Name: "has_personal_trainer", Label: "Personal Trainer", Kind: crud.KindBool, Default: false},
	{Name: "has_locker", Label: "Locker", Kind: crud.KindBool, Default: false},
	{Name: "has_cardio_access", Label: "Cardio Access", Kind: crud.KindBool, Default: true},
	{Name: "has_weight_training", Label: "Weight Training", Kind: crud.KindBool, Default: true},
	{Name: "is_active", Label: "Active", Kind: crud.KindBool, Default: true},
}

func Filters(f *crud.Filter) {
	f.Search("search", "name", "description")
	f.Bool("is_active", "is_active")
	f.Bool("has_personal_trainer", "has_personal_trainer")
	f.Bool("has_locker", "has_locker")
	f.Min("min_price", "price")
	f.Max("max_price", "price")
}

func NewResource(repo Repository) *crud.Resource[Plan, Input] {
	return &crud.Resource[Plan, Input]{
		Module: Module,
		Entity: Entity,
		Label:  "Subscription Plan",
		Path:   "/plans",
		Table: crud.Table{
			Name:    "subscription_plans",
			Select:  columns,
			From:    "subscription_plans",
			ID:      "id",
			OrderBy: "price ASC, id ASC",
			Created: "created_on",
			Active:  "is_active",
			Sums:    []crud.Sum{{Name: "price", Expr: "price"}},
		},
		Fields:       Fields,
		Filters:      Filters,
		Actions:      []crud.Action{crud.ActList, crud.ActCreate, crud.ActUpdate, crud.ActDelete},
		Writer:       &writer{repo: repo},
		SuccessRoute: "finance:subscriptionplan_list",
	}
}

type writer struct {
	repo Repository
}

func (w *writer) Create(ctx context.Context, q db.Querier, _ *auth.Actor, in *Input) (int, error) {
	return w.repo.Create(ctx, q, in)
}

// Update refuses to change the terms of a plan that payments already point at.
func (w *writer) Update(ctx context.Context, q db.Querier, _ *auth.Actor, id int, in *Input) error {
	current, err := w.repo.GetByID(ctx, q, id)
	if err != nil {
		return err
	}

	referenced, err := w.repo.IsReferenced(ctx, q, id)
	if err != nil {
		return err
	}
	if referenced {
		if errs := termChanges(current, in); errs != nil {
			return errs
		}
	}

	return w.repo.Update(ctx, q, id, in)
}

func termChanges(p *Plan, in *Input) crud.ValidationErrors {
	errs := crud.ValidationErrors{}
	changed := func(field string, diff bool) {
		if diff {
			errs.Add(field, "immutable", msgReferenced)
		}
	}

	changed("name", in.Name != p.Name)
	changed("duration_days", in.DurationDays != p.DurationDays)
	changed("price", !in.price().Equal(p.Price))
	changed("has_personal_trainer", in.HasPersonalTrainer != p.HasPersonalTrainer)
	changed("has_locker", in.HasLocker != p.HasLocker)
	changed("has_cardio_access", boolOr(in.HasCardioAccess, true) != p.HasCardioAccess)
	changed("has_weight_training", boolOr(in.HasWeightTraining, true) != p.HasWeightTraining)

	if len(errs) == 0 {
		return nil
	}
	return errs
}
