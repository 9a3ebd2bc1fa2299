package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/crud"
	"gymdesk/internal/member"
	"gymdesk/internal/metrics"
	"gymdesk/internal/notification"
	"gymdesk/internal/plan"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo    *MockRepository
	members *MockMembers
	plans   *MockPlans
	sender  *MockSender
	svc     Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:    new(MockRepository),
		members: new(MockMembers),
		plans:   new(MockPlans),
		sender:  new(MockSender),
	}
	noon := time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)
	f.svc = NewService(f.repo, f.plans, f.members, f.sender, nil, func() time.Time { return noon })
	return f
}

var cashier = auth.NewActor(5, "desk@gym.local", "administration", true, false, true, nil)

func monthly(active bool) *plan.Plan {
	return &plan.Plan{ID: 2, Name: "Monthly", DurationDays: 30, Price: decimal.NewFromInt(3000), IsActive: active}
}

func amount(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func TestRecord_DerivesPeriodAndReconciles(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.plans.On("GetByID", mock.Anything, nil, 2).Return(monthly(true), nil)
	f.repo.On("Insert", mock.Anything, nil, mock.MatchedBy(func(e *Entry) bool {
		return e.MemberID == 3 &&
			e.Status == StatusPaid &&
			e.Method == MethodCash &&
			e.PeriodStart.Equal(day(0)) &&
			e.PeriodEnd.Equal(day(30)) &&
			*e.ReceivedBy == 5
	})).Return(11, nil)
	f.members.On("LockWindow", mock.Anything, nil, 3).
		Return(&member.Window{MemberID: 3, Status: member.StatusPending}, nil)
	f.members.On("SaveWindow", mock.Anything, nil, mock.MatchedBy(func(w *member.Window) bool {
		return *w.PlanID == 2 && w.Start.Equal(day(0)) && w.End.Equal(day(30)) && w.Status == member.StatusActive
	})).Return(nil)

	id, err := f.svc.Record(ctx, nil, cashier, &Input{MemberID: 3, SubscriptionPlanID: intPtr(2), Amount: amount(3000)})
	require.NoError(t, err)
	assert.Equal(t, 11, id)
	f.repo.AssertExpectations(t)
	f.members.AssertExpectations(t)
}

func TestRecord_ExplicitPeriodWithoutPlan(t *testing.T) {
	f := newFixture()
	start, end := "2024-06-01", "2024-06-15"

	f.repo.On("Insert", mock.Anything, nil, mock.Anything).Return(12, nil)
	f.members.On("LockWindow", mock.Anything, nil, 3).
		Return(&member.Window{MemberID: 3, PlanID: intPtr(1), Status: member.StatusExpired}, nil)
	f.members.On("SaveWindow", mock.Anything, nil, mock.MatchedBy(func(w *member.Window) bool {
		return *w.PlanID == 1 && w.End.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	})).Return(nil)

	_, err := f.svc.Record(context.Background(), nil, cashier, &Input{
		MemberID: 3, Amount: amount(500), PeriodStart: &start, PeriodEnd: &end,
	})
	require.NoError(t, err)
	f.plans.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	f.members.AssertExpectations(t)
}

func TestRecord_PastEndBeforeDerivedStartIsFieldError(t *testing.T) {
	f := newFixture()
	end := "2024-04-01"

	f.plans.On("GetByID", mock.Anything, nil, 2).Return(monthly(true), nil)

	_, err := f.svc.Record(context.Background(), nil, cashier, &Input{
		MemberID: 3, SubscriptionPlanID: intPtr(2), Amount: amount(3000), PeriodEnd: &end,
	})

	var verrs crud.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "invalid", verrs["period_end"][0].Code)
	f.repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
	f.members.AssertNotCalled(t, "LockWindow", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecord_EndOnlyWithoutPlanExtendsWindow(t *testing.T) {
	f := newFixture()
	end := "2024-07-01"

	f.repo.On("Insert", mock.Anything, nil, mock.MatchedBy(func(e *Entry) bool {
		return e.PeriodStart == nil && e.PeriodEnd != nil
	})).Return(14, nil)
	f.members.On("LockWindow", mock.Anything, nil, 3).
		Return(&member.Window{MemberID: 3, PlanID: intPtr(1), Start: dayPtr(-25), End: dayPtr(5), Status: member.StatusActive}, nil)
	f.members.On("SaveWindow", mock.Anything, nil, mock.MatchedBy(func(w *member.Window) bool {
		return *w.PlanID == 1 &&
			w.Start.Equal(day(-25)) &&
			w.End.Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)) &&
			w.Status == member.StatusActive
	})).Return(nil)

	_, err := f.svc.Record(context.Background(), nil, cashier, &Input{MemberID: 3, Amount: amount(900), PeriodEnd: &end})
	require.NoError(t, err)
	f.plans.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	f.members.AssertExpectations(t)
}

func TestRecord_PendingDoesNotTouchMember(t *testing.T) {
	f := newFixture()

	f.plans.On("GetByID", mock.Anything, nil, 2).Return(monthly(true), nil)
	f.repo.On("Insert", mock.Anything, nil, mock.MatchedBy(func(e *Entry) bool {
		return e.PeriodStart == nil && e.PeriodEnd == nil
	})).Return(13, nil)

	_, err := f.svc.Record(context.Background(), nil, cashier, &Input{
		MemberID: 3, SubscriptionPlanID: intPtr(2), Amount: amount(3000), Status: StatusPending,
	})
	require.NoError(t, err)
	f.members.AssertNotCalled(t, "LockWindow", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecord_InactivePlanRejected(t *testing.T) {
	f := newFixture()
	f.plans.On("GetByID", mock.Anything, nil, 2).Return(monthly(false), nil)

	_, err := f.svc.Record(context.Background(), nil, cashier, &Input{MemberID: 3, SubscriptionPlanID: intPtr(2), Amount: amount(3000)})

	var verrs crud.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "inactive", verrs["subscription_plan_id"][0].Code)
	f.repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecord_UnknownPlanIsFieldError(t *testing.T) {
	f := newFixture()
	f.plans.On("GetByID", mock.Anything, nil, 99).Return(nil, plan.ErrPlanNotFound)

	_, err := f.svc.Record(context.Background(), nil, cashier, &Input{MemberID: 3, SubscriptionPlanID: intPtr(99), Amount: amount(1)})

	var verrs crud.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "subscription_plan_id")
}

func TestAmend_RefundKeepsWindow(t *testing.T) {
	f := newFixture()
	before := testutil.ToFloat64(metrics.ReconciliationsTotal.WithLabelValues(OutcomeRefund))

	f.repo.On("GetForUpdate", mock.Anything, nil, 11).Return(&Entry{
		ID: 11, MemberID: 3, PlanID: intPtr(2), Status: StatusPaid,
		PeriodStart: dayPtr(0), PeriodEnd: dayPtr(30), ReceivedBy: intPtr(4),
	}, nil)
	f.plans.On("GetByID", mock.Anything, nil, 2).Return(monthly(true), nil)
	f.repo.On("Update", mock.Anything, nil, 11, mock.MatchedBy(func(e *Entry) bool {
		return e.Status == StatusRefunded && *e.ReceivedBy == 4
	})).Return(nil)

	err := f.svc.Amend(context.Background(), nil, cashier, 11, &Input{
		MemberID: 3, SubscriptionPlanID: intPtr(2), Amount: amount(3000), Status: StatusRefunded,
	})
	require.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ReconciliationsTotal.WithLabelValues(OutcomeRefund)))
	f.members.AssertNotCalled(t, "SaveWindow", mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertExpectations(t)
}

func TestAmend_KeepsInactivePlan(t *testing.T) {
	f := newFixture()

	f.repo.On("GetForUpdate", mock.Anything, nil, 11).Return(&Entry{ID: 11, MemberID: 3, PlanID: intPtr(2), Status: StatusPending}, nil)
	f.plans.On("GetByID", mock.Anything, nil, 2).Return(monthly(false), nil)
	f.repo.On("Update", mock.Anything, nil, 11, mock.Anything).Return(nil)

	err := f.svc.Amend(context.Background(), nil, cashier, 11, &Input{
		MemberID: 3, SubscriptionPlanID: intPtr(2), Amount: amount(3000), Status: StatusPending, Notes: "corrected",
	})
	assert.NoError(t, err)
}

func TestAmend_PendingToPaidReconciles(t *testing.T) {
	f := newFixture()

	f.repo.On("GetForUpdate", mock.Anything, nil, 11).Return(&Entry{
		ID: 11, MemberID: 3, PlanID: intPtr(2), Status: StatusPending, PaidAt: day(-2),
	}, nil)
	f.plans.On("GetByID", mock.Anything, nil, 2).Return(monthly(true), nil)
	f.repo.On("Update", mock.Anything, nil, 11, mock.MatchedBy(func(e *Entry) bool {
		return e.Status == StatusPaid && e.PeriodStart.Equal(day(0)) && e.PeriodEnd.Equal(day(30))
	})).Return(nil)
	f.members.On("LockWindow", mock.Anything, nil, 3).
		Return(&member.Window{MemberID: 3, Start: dayPtr(-60), End: dayPtr(-30), Status: member.StatusExpired}, nil)
	f.members.On("SaveWindow", mock.Anything, nil, mock.MatchedBy(func(w *member.Window) bool {
		return *w.PlanID == 2 && w.Start.Equal(day(-60)) && w.End.Equal(day(30)) && w.Status == member.StatusActive
	})).Return(nil)

	err := f.svc.Amend(context.Background(), nil, cashier, 11, &Input{
		MemberID: 3, SubscriptionPlanID: intPtr(2), Amount: amount(3000), Status: StatusPaid,
	})
	require.NoError(t, err)
	f.repo.AssertExpectations(t)
	f.members.AssertExpectations(t)
}

func TestAmend_NotFound(t *testing.T) {
	f := newFixture()
	f.repo.On("GetForUpdate", mock.Anything, nil, 11).Return(nil, ErrPaymentNotFound)

	err := f.svc.Amend(context.Background(), nil, cashier, 11, &Input{MemberID: 3, Amount: amount(1)})
	assert.ErrorIs(t, err, crud.ErrNotFound)
}

func TestRenew_ChainsOntoRunningWindow(t *testing.T) {
	f := newFixture()

	f.members.On("LockWindow", mock.Anything, nil, 3).
		Return(&member.Window{MemberID: 3, PlanID: intPtr(1), Start: dayPtr(-20), End: dayPtr(10), Status: member.StatusActive}, nil)
	f.plans.On("GetByID", mock.Anything, nil, 2).Return(monthly(true), nil)
	f.repo.On("Insert", mock.Anything, nil, mock.MatchedBy(func(e *Entry) bool {
		return e.Status == StatusPaid && e.PeriodStart.Equal(day(10)) && e.PeriodEnd.Equal(day(40)) && *e.PlanID == 2
	})).Return(21, nil)
	f.members.On("SaveWindow", mock.Anything, nil, mock.MatchedBy(func(w *member.Window) bool {
		return w.Start.Equal(day(-20)) && w.End.Equal(day(40)) && *w.PlanID == 2
	})).Return(nil)

	id, err := f.svc.Renew(context.Background(), nil, cashier, 3, &RenewInput{SubscriptionPlanID: 2, Amount: amount(3000)})
	require.NoError(t, err)
	assert.Equal(t, 21, id)
	f.repo.AssertExpectations(t)
	f.members.AssertExpectations(t)
}

func TestRenew_RestartsAfterExpiry(t *testing.T) {
	f := newFixture()

	f.members.On("LockWindow", mock.Anything, nil, 3).
		Return(&member.Window{MemberID: 3, Start: dayPtr(-35), End: dayPtr(-5), Status: member.StatusExpired}, nil)
	f.plans.On("GetByID", mock.Anything, nil, 2).Return(monthly(true), nil)
	f.repo.On("Insert", mock.Anything, nil, mock.MatchedBy(func(e *Entry) bool {
		return e.PeriodStart.Equal(day(0)) && e.PeriodEnd.Equal(day(30))
	})).Return(22, nil)
	f.members.On("SaveWindow", mock.Anything, nil, mock.MatchedBy(func(w *member.Window) bool {
		return w.End.Equal(day(30)) && w.Status == member.StatusActive
	})).Return(nil)

	_, err := f.svc.Renew(context.Background(), nil, cashier, 3, &RenewInput{SubscriptionPlanID: 2, Amount: amount(3000)})
	require.NoError(t, err)
	f.members.AssertExpectations(t)
}

func TestRenew_InactivePlanLeavesMemberUntouched(t *testing.T) {
	f := newFixture()

	f.members.On("LockWindow", mock.Anything, nil, 3).Return(&member.Window{MemberID: 3}, nil)
	f.plans.On("GetByID", mock.Anything, nil, 2).Return(monthly(false), nil)

	_, err := f.svc.Renew(context.Background(), nil, cashier, 3, &RenewInput{SubscriptionPlanID: 2, Amount: amount(3000)})

	var verrs crud.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	f.repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
	f.members.AssertNotCalled(t, "SaveWindow", mock.Anything, mock.Anything, mock.Anything)
}

func TestRenew_MemberNotFound(t *testing.T) {
	f := newFixture()
	f.members.On("LockWindow", mock.Anything, nil, 3).Return(nil, member.ErrMemberNotFound)

	_, err := f.svc.Renew(context.Background(), nil, cashier, 3, &RenewInput{SubscriptionPlanID: 2, Amount: amount(1)})
	assert.ErrorIs(t, err, crud.ErrNotFound)
}

func TestSendReceipt(t *testing.T) {
	f := newFixture()
	planName := "Monthly"

	f.repo.On("Get", mock.Anything, nil, 11).Return(&Payment{
		ID: 11, MemberID: 3, PlanName: &planName, Amount: decimal.NewFromInt(3000), Discount: decimal.NewFromInt(500),
		NetAmount: decimal.NewFromInt(2500), PaymentMethod: MethodJazzCash, Status: StatusPaid,
		PeriodStart: dayPtr(0), PeriodEnd: dayPtr(30),
	}, nil)
	f.members.On("Contact", mock.Anything, nil, 3).Return(&member.Contact{Email: "sara@gym.local", Name: "Sara Khan"}, nil)
	f.sender.On("Send", mock.Anything, mock.MatchedBy(func(req notification.Request) bool {
		data, ok := req.Data.(notification.ReceiptData)
		return ok &&
			req.Template == notification.TemplateReceipt &&
			req.Recipients[0] == "sara@gym.local" &&
			req.Link.ObjectID == 11 &&
			data.NetAmount == "2500.00" &&
			data.Discount == "500.00" &&
			data.Method == "JazzCash" &&
			data.PeriodEnd == "2024-06-09"
	})).Return(&notification.Result{IDs: []int{1}, Status: notification.StatusSent}, nil)

	f.svc.SendReceipt(context.Background(), 11, notification.TemplateReceipt)
	f.sender.AssertExpectations(t)
}

func TestSendReceipt_FailuresAreSwallowed(t *testing.T) {
	f := newFixture()

	f.repo.On("Get", mock.Anything, nil, 11).Return(&Payment{ID: 11, MemberID: 3, Status: StatusPaid, PaymentMethod: MethodCash}, nil)
	f.members.On("Contact", mock.Anything, nil, 3).Return(&member.Contact{Email: "sara@gym.local"}, nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	assert.NotPanics(t, func() {
		f.svc.SendReceipt(context.Background(), 11, notification.TemplateRenewal)
	})
}

func TestSendReceipt_SkipsUnpaid(t *testing.T) {
	f := newFixture()
	f.repo.On("Get", mock.Anything, nil, 11).Return(&Payment{ID: 11, MemberID: 3, Status: StatusPending, PaymentMethod: MethodCash}, nil)

	f.svc.SendReceipt(context.Background(), 11, notification.TemplateReceipt)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestInput_Clean(t *testing.T) {
	start, end := "2024-02-01", "2024-01-01"
	errs := (&Input{PeriodStart: &start, PeriodEnd: &end}).Clean()
	require.NotNil(t, errs)
	assert.Contains(t, errs, "period_end")

	end = "2024-02-01"
	assert.Nil(t, (&Input{PeriodStart: &start, PeriodEnd: &end}).Clean())
}
