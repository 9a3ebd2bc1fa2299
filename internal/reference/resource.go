package reference

import (
	"context"

	"gymdesk/internal/auth"
	"gymdesk/internal/crud"
	"gymdesk/internal/db"
)

const (
	Module        = "management"
	EntityCountry = "country"
	EntityState   = "state"
)

var CountryFields = []crud.Field{
	{Name: "name", Label: "Name", Kind: crud.KindText, Required: true},
	{Name: "short_name", Label: "Short Name", Kind: crud.KindText},
	{Name: "language", Label: "Language", Kind: crud.KindText},
	{Name: "currency", Label: "Currency", Kind: crud.KindText},
	{Name: "phone_code", Label: "Phone Code", Kind: crud.KindText},
	{Name: "is_services_available", Label: "Services Available", Kind: crud.KindBool, Default: false},
	{Name: "is_active", Label: "Active", Kind: crud.KindBool, Default: true},
}

var StateFields = []crud.Field{
	{Name: "name", Label: "Name", Kind: crud.KindText, Required: true},
	{Name: "country_id", Label: "Country", Kind: crud.KindRelation, Required: true, Source: "management:country_list"},
	{Name: "is_active", Label: "Active", Kind: crud.KindBool, Default: true},
}

func NewCountryResource(repo Repository) *crud.Resource[Country, CountryInput] {
	return &crud.Resource[Country, CountryInput]{
		Module: Module,
		Entity: EntityCountry,
		Label:  "Country",
		Path:   "/countries",
		Table: crud.Table{
			Name:    "countries",
			Select:  countryColumns,
			From:    "countries",
			ID:      "id",
			OrderBy: "name ASC, id ASC",
			Created: "created_on",
			Active:  "is_active",
		},
		Fields: CountryFields,
		Filters: func(f *crud.Filter) {
			f.Search("search", "name", "short_name", "currency")
			f.Bool("is_active", "is_active")
			f.Bool("is_services_available", "is_services_available")
		},
		Relations:    []crud.Relation{statesRelation(repo)},
		Writer:       countryWriter{repo: repo},
		SuccessRoute: "management:country_detail",
	}
}

func NewStateResource(repo Repository) *crud.Resource[State, StateInput] {
	return &crud.Resource[State, StateInput]{
		Module: Module,
		Entity: EntityState,
		Label:  "State",
		Path:   "/states",
		Table: crud.Table{
			Name:    "states",
			Select:  stateColumns,
			From:    stateFrom,
			ID:      "s.id",
			OrderBy: "c.name ASC, s.name ASC",
			Created: "s.created_on",
			Active:  "s.is_active",
		},
		Fields: StateFields,
		Filters: func(f *crud.Filter) {
			f.Search("search", "s.name", "c.name")
			f.Int("country", "s.country_id")
			f.Bool("is_active", "s.is_active")
		},
		Writer:       stateWriter{repo: repo},
		SuccessRoute: "management:state_list",
	}
}

func statesRelation(repo Repository) crud.Relation {
	return crud.Relation{
		Name:       "states",
		Label:      "States",
		Kind:       crud.RelationFK,
		ForeignKey: "country_id",
		Form:       crud.DeriveForm("State", StateFields, nil),
		Count: func(ctx context.Context, q db.Querier, countryID int) (int, error) {
			return repo.CountStates(ctx, q, countryID)
		},
		Load: func(ctx context.Context, q db.Querier, countryID, limit, offset int) (interface{}, error) {
			return repo.ListStates(ctx, q, countryID, limit, offset)
		},
	}
}

type countryWriter struct{ repo Repository }

func (w countryWriter) Create(ctx context.Context, q db.Querier, _ *auth.Actor, in *CountryInput) (int, error) {
	return w.repo.CreateCountry(ctx, q, in)
}

func (w countryWriter) Update(ctx context.Context, q db.Querier, _ *auth.Actor, id int, in *CountryInput) error {
	return w.repo.UpdateCountry(ctx, q, id, in)
}

type stateWriter struct{ repo Repository }

func (w stateWriter) Create(ctx context.Context, q db.Querier, _ *auth.Actor, in *StateInput) (int, error) {
	return w.repo.CreateState(ctx, q, in)
}

func (w stateWriter) Update(ctx context.Context, q db.Querier, _ *auth.Actor, id int, in *StateInput) error {
	return w.repo.UpdateState(ctx, q, id, in)
}
