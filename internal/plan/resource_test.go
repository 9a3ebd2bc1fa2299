package plan

import (
	"context"
	"testing"

	"gymdesk/internal/crud"
	"gymdesk/internal/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct{ mock.Mock }

func (m *MockRepository) GetByID(ctx context.Context, q db.Querier, id int) (*Plan, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, q db.Querier, in *Input) (int, error) {
	args := m.Called(ctx, q, in)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, q db.Querier, id int, in *Input) error {
	return m.Called(ctx, q, id, in).Error(0)
}

func (m *MockRepository) IsReferenced(ctx context.Context, q db.Querier, id int) (bool, error) {
	args := m.Called(ctx, q, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListActive(ctx context.Context) ([]Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Plan), args.Error(1)
}

func storedPlan() *Plan {
	return &Plan{
		ID:                1,
		Name:              "Monthly",
		DurationDays:      30,
		Price:             decimal.NewFromInt(3000),
		HasCardioAccess:   true,
		HasWeightTraining: true,
		IsActive:          true,
	}
}

func TestWriterUpdate(t *testing.T) {
	ctx := context.Background()
	inactive := false

	tests := []struct {
		name       string
		referenced bool
		edit       func(in *Input)
		wantFields []string
	}{
		{
			name:       "unreferenced plan changes freely",
			referenced: false,
			edit:       func(in *Input) { in.DurationDays = 60 },
		},
		{
			name:       "referenced plan may change description and active flag",
			referenced: true,
			edit: func(in *Input) {
				in.Description = "Now with sauna"
				in.IsActive = &inactive
			},
		},
		{
			name:       "referenced plan refuses new terms",
			referenced: true,
			edit: func(in *Input) {
				in.DurationDays = 60
				p := decimal.NewFromInt(5000)
				in.Price = &p
			},
			wantFields: []string{"duration_days", "price"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			w := &writer{repo: repo}

			in := monthly()
			tt.edit(in)

			repo.On("GetByID", ctx, nil, 1).Return(storedPlan(), nil)
			repo.On("IsReferenced", ctx, nil, 1).Return(tt.referenced, nil)
			if tt.wantFields == nil {
				repo.On("Update", ctx, nil, 1, in).Return(nil)
			}

			err := w.Update(ctx, nil, nil, 1, in)

			if tt.wantFields == nil {
				require.NoError(t, err)
			} else {
				var verrs crud.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				for _, f := range tt.wantFields {
					assert.Equal(t, "immutable", verrs[f][0].Code)
				}
				repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestWriterUpdate_MissingPlan(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("GetByID", ctx, nil, 7).Return(nil, ErrPlanNotFound)

	err := (&writer{repo: repo}).Update(ctx, nil, nil, 7, monthly())
	assert.ErrorIs(t, err, crud.ErrNotFound)
}

func TestResource_Declaration(t *testing.T) {
	res := NewResource(new(MockRepository))
	assert.Equal(t, "finance:subscriptionplan_update", res.RouteName(crud.ActUpdate))
	assert.Equal(t, "finance.change_subscriptionplan", res.Capability(crud.ActUpdate).String())

	form := res.FormSchema()
	assert.Equal(t, "Enter Subscription Plan Name", form.Fields[0].Placeholder)
}
