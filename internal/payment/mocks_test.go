package payment

import (
	"context"
	"time"

	"gymdesk/internal/db"
	"gymdesk/internal/member"
	"gymdesk/internal/notification"
	"gymdesk/internal/plan"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct{ mock.Mock }

func (m *MockRepository) Insert(ctx context.Context, q db.Querier, e *Entry) (int, error) {
	args := m.Called(ctx, q, e)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, q db.Querier, id int, e *Entry) error {
	return m.Called(ctx, q, id, e).Error(0)
}

func (m *MockRepository) GetForUpdate(ctx context.Context, q db.Querier, id int) (*Entry, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Entry), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, q db.Querier, id int) (*Payment, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) CountForMember(ctx context.Context, q db.Querier, memberID int) (int, error) {
	args := m.Called(ctx, q, memberID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ListForMember(ctx context.Context, q db.Querier, memberID, limit, offset int) ([]Payment, error) {
	args := m.Called(ctx, q, memberID, limit, offset)
	return args.Get(0).([]Payment), args.Error(1)
}

type MockMembers struct{ mock.Mock }

func (m *MockMembers) Create(ctx context.Context, q db.Querier, in *member.Input, today time.Time) (int, error) {
	args := m.Called(ctx, q, in, today)
	return args.Int(0), args.Error(1)
}

func (m *MockMembers) Update(ctx context.Context, q db.Querier, id int, in *member.Input) error {
	return m.Called(ctx, q, id, in).Error(0)
}

func (m *MockMembers) LockWindow(ctx context.Context, q db.Querier, id int) (*member.Window, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// копия, чтобы тест видел исходное окно после SaveWindow
	w := *args.Get(0).(*member.Window)
	return &w, args.Error(1)
}

func (m *MockMembers) SaveWindow(ctx context.Context, q db.Querier, w *member.Window) error {
	return m.Called(ctx, q, w).Error(0)
}

func (m *MockMembers) Contact(ctx context.Context, q db.Querier, id int) (*member.Contact, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Contact), args.Error(1)
}

func (m *MockMembers) RefreshStatuses(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

type MockPlans struct{ mock.Mock }

func (m *MockPlans) GetByID(ctx context.Context, q db.Querier, id int) (*plan.Plan, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

func (m *MockPlans) Create(ctx context.Context, q db.Querier, in *plan.Input) (int, error) {
	args := m.Called(ctx, q, in)
	return args.Int(0), args.Error(1)
}

func (m *MockPlans) Update(ctx context.Context, q db.Querier, id int, in *plan.Input) error {
	return m.Called(ctx, q, id, in).Error(0)
}

func (m *MockPlans) IsReferenced(ctx context.Context, q db.Querier, id int) (bool, error) {
	args := m.Called(ctx, q, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlans) ListActive(ctx context.Context) ([]plan.Plan, error) {
	args := m.Called(ctx)
	return args.Get(0).([]plan.Plan), args.Error(1)
}

type MockSender struct{ mock.Mock }

func (m *MockSender) Send(ctx context.Context, req notification.Request) (*notification.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Result), args.Error(1)
}
