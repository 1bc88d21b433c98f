package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/billingkit/pkg/billing"
	"github.com/dmitrymomot/billingkit/pkg/tax"
)

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) GetCustomer(ctx context.Context, id string) (*billing.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Customer), args.Error(1)
}

func (m *mockProcessor) CreateCustomer(ctx context.Context, params billing.CustomerParams) (*billing.Customer, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Customer), args.Error(1)
}

func (m *mockProcessor) UpdateCustomer(ctx context.Context, id string, params billing.CustomerParams) error {
	return m.Called(ctx, id, params).Error(0)
}

func (m *mockProcessor) DeleteCustomer(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProcessor) CreateTaxID(ctx context.Context, customerID string, id tax.ID) error {
	return m.Called(ctx, customerID, id).Error(0)
}

func (m *mockProcessor) DeleteTaxID(ctx context.Context, customerID, taxIDID string) error {
	return m.Called(ctx, customerID, taxIDID).Error(0)
}

func (m *mockProcessor) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error {
	return m.Called(ctx, paymentMethodID, customerID).Error(0)
}

func (m *mockProcessor) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	return m.Called(ctx, customerID, paymentMethodID).Error(0)
}

func (m *mockProcessor) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	return m.Called(ctx, paymentMethodID).Error(0)
}

func (m *mockProcessor) CreateSubscription(ctx context.Context, params billing.SubscriptionParams) (*billing.Subscription, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *mockProcessor) ChangeSubscriptionPlan(ctx context.Context, id string, params billing.PlanChangeParams) (*billing.Subscription, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *mockProcessor) SetCancelAtPeriodEnd(ctx context.Context, id string, cancel bool) error {
	return m.Called(ctx, id, cancel).Error(0)
}

func (m *mockProcessor) CancelSubscription(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProcessor) GetInvoice(ctx context.Context, id string) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *mockProcessor) PayInvoice(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProcessor) ListPaidInvoices(ctx context.Context, customerID string, limit int) ([]billing.Invoice, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *mockProcessor) GetCoupon(ctx context.Context, code string) (*billing.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Coupon), args.Error(1)
}

func (m *mockProcessor) CreateSetupIntent(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(ctx context.Context, country, number string) bool {
	return m.Called(ctx, country, number).Bool(0)
}

// fixedNow is mid-August 2019, after the period ends used in fixtures.
var fixedNow = time.Date(2019, time.August, 15, 12, 0, 0, 0, time.UTC)

func newManager(t *testing.T, p *mockProcessor, v *mockVerifier, cfg billing.Config) *billing.Manager {
	t.Helper()

	if v == nil {
		v = &mockVerifier{}
	}
	mgr, err := billing.NewManager(p,
		billing.WithConfig(cfg),
		billing.WithVATVerifier(v),
		billing.WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	return mgr
}
