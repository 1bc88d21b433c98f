package billing_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/billingkit/pkg/billing"
	"github.com/dmitrymomot/billingkit/pkg/logger"
	"github.com/dmitrymomot/billingkit/pkg/tax"
)

func TestNewManager(t *testing.T) {
	t.Parallel()

	t.Run("requires processor", func(t *testing.T) {
		t.Parallel()
		mgr, err := billing.NewManager(nil)
		assert.ErrorIs(t, err, billing.ErrMissingCredential)
		assert.Nil(t, mgr)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		t.Parallel()
		_, err := billing.NewManager(&mockProcessor{}, billing.WithConfig(billing.Config{TaxOrigin: "sweden"}))
		assert.ErrorIs(t, err, billing.ErrInvalidConfig)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		mgr, err := billing.NewManager(&mockProcessor{})
		require.NoError(t, err)
		assert.Equal(t, billing.Config{}, mgr.Config())
	})
}

func TestManage_PreValidation(t *testing.T) {
	t.Parallel()

	t.Run("unknown coupon aborts", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("GetCoupon", mock.Anything, "NOPE").Return(nil, billing.ErrCouponNotFound)
		mgr := newManager(t, p, nil, billing.Config{})

		_, err := mgr.Manage(context.Background(), "cus_1", billing.ManageOptions{Coupon: "NOPE", Plan: "price_1"})
		assert.ErrorIs(t, err, billing.ErrCouponNotFound)
		p.AssertExpectations(t)
		p.AssertNotCalled(t, "GetCustomer", mock.Anything, mock.Anything)
	})

	t.Run("expired coupon aborts", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("GetCoupon", mock.Anything, "OLD").Return(&billing.Coupon{ID: "OLD", Valid: false}, nil)
		mgr := newManager(t, p, nil, billing.Config{})

		_, err := mgr.Manage(context.Background(), "", billing.ManageOptions{Coupon: "OLD"})
		assert.ErrorIs(t, err, billing.ErrCouponNotFound)
		p.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	})

	t.Run("coupon lookup failure propagates", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("GetCoupon", mock.Anything, "X").Return(nil, errors.New("network down"))
		mgr := newManager(t, p, nil, billing.Config{})

		_, err := mgr.Manage(context.Background(), "", billing.ManageOptions{Coupon: "X"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, billing.ErrCouponNotFound)
	})

	t.Run("invalid vat aborts", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		v := &mockVerifier{}
		v.On("Verify", mock.Anything, "SE", "SE000").Return(false)
		mgr := newManager(t, p, v, billing.Config{})

		_, err := mgr.Manage(context.Background(), "cus_1", billing.ManageOptions{Country: "se", VAT: "se000"})
		assert.ErrorIs(t, err, billing.ErrInvalidVATNumber)
		v.AssertExpectations(t)
		p.AssertNotCalled(t, "GetCustomer", mock.Anything, mock.Anything)
	})

	t.Run("vat without country uses prefix", func(t *testing.T) {
		t.Parallel()
		v := &mockVerifier{}
		v.On("Verify", mock.Anything, "IE", "IE6388047V").Return(false)
		mgr := newManager(t, &mockProcessor{}, v, billing.Config{})

		_, err := mgr.Manage(context.Background(), "", billing.ManageOptions{VAT: "IE6388047V"})
		assert.ErrorIs(t, err, billing.ErrInvalidVATNumber)
		v.AssertExpectations(t)
	})
}

func TestManage_NewCustomer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := billing.Config{
		TaxOrigin: "GB",
		TaxRates:  map[string]string{"SE": "txr_se", "default": "txr_default"},
		TrialDays: 14,
	}

	p := &mockProcessor{}
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, "SE", "SE556677889901").Return(true)
	p.On("GetCoupon", mock.Anything, "WELCOME").Return(&billing.Coupon{ID: "WELCOME", Valid: true}, nil)
	p.On("CreateCustomer", mock.Anything, billing.CustomerParams{
		CustomerDetails: billing.CustomerDetails{Name: "Jane", Email: "jane@example.com", Country: "SE", Postcode: "11122"},
		TaxExempt:       tax.ExemptReverse,
	}).Return(&billing.Customer{ID: "cus_new"}, nil)
	p.On("CreateTaxID", mock.Anything, "cus_new", tax.ID{Type: "eu_vat", Value: "SE556677889901"}).Return(nil)
	p.On("AttachPaymentMethod", mock.Anything, "pm_1", "cus_new").Return(nil)
	p.On("SetDefaultPaymentMethod", mock.Anything, "cus_new", "pm_1").Return(nil)
	p.On("CreateSubscription", mock.Anything, billing.SubscriptionParams{
		CustomerID: "cus_new",
		Plan:       "price_1",
		Coupon:     "WELCOME",
		TaxRate:    "txr_se",
		TrialDays:  14,
	}).Return(&billing.Subscription{ID: "sub_1", Status: billing.StatusTrialing}, nil)

	mgr := newManager(t, p, v, cfg)
	res, err := mgr.Manage(ctx, "", billing.ManageOptions{
		Email:         "jane@example.com",
		Name:          "Jane",
		Country:       "SE",
		Postcode:      "11122",
		VAT:           "SE556677889901",
		Coupon:        "WELCOME",
		PaymentMethod: "pm_1",
		Plan:          "price_1",
	})
	require.NoError(t, err)

	assert.Equal(t, "cus_new", res.CustomerID)
	assert.Equal(t, tax.ExemptReverse, res.Tax.Exempt)
	assert.False(t, res.Retry.Retried)
	p.AssertExpectations(t)
	v.AssertExpectations(t)
	p.AssertNotCalled(t, "DetachPaymentMethod", mock.Anything, mock.Anything)
}

func TestManage_StripsVATSeparators(t *testing.T) {
	t.Parallel()

	p := &mockProcessor{}
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, "SE", "SE556677889901").Return(true)
	p.On("CreateCustomer", mock.Anything, mock.Anything).Return(&billing.Customer{ID: "cus_new"}, nil)
	p.On("CreateTaxID", mock.Anything, "cus_new", tax.ID{Type: "eu_vat", Value: "SE556677889901"}).Return(nil)
	mgr := newManager(t, p, v, billing.Config{TaxOrigin: "GB"})

	res, err := mgr.Manage(context.Background(), "", billing.ManageOptions{
		Country: "se",
		VAT:     " se 556.677-889901 ",
	})
	require.NoError(t, err)
	assert.Equal(t, &tax.ID{Type: "eu_vat", Value: "SE556677889901"}, res.Tax.ID)
	p.AssertExpectations(t)
	v.AssertExpectations(t)
}

func TestManage_TrialDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		trial *int
		want  int
	}{
		{name: "config default", trial: nil, want: 14},
		{name: "explicit no trial", trial: new(int), want: 0},
		{name: "explicit override", trial: func() *int { n := 7; return &n }(), want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &mockProcessor{}
			p.On("CreateCustomer", mock.Anything, mock.Anything).Return(&billing.Customer{ID: "cus_new"}, nil)
			p.On("CreateSubscription", mock.Anything, billing.SubscriptionParams{
				CustomerID: "cus_new",
				Plan:       "price_1",
				TrialDays:  tt.want,
			}).Return(&billing.Subscription{ID: "sub_1", Status: billing.StatusActive}, nil)
			mgr := newManager(t, p, nil, billing.Config{TrialDays: 14})

			_, err := mgr.Manage(context.Background(), "", billing.ManageOptions{
				Country:   "US",
				Plan:      "price_1",
				TrialDays: tt.trial,
			})
			require.NoError(t, err)
			p.AssertExpectations(t)
		})
	}
}

func TestManage_LogsStepEvents(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	p := &mockProcessor{}
	p.On("CreateCustomer", mock.Anything, mock.Anything).Return(&billing.Customer{ID: "cus_new"}, nil)
	mgr, err := billing.NewManager(p,
		billing.WithVATVerifier(&mockVerifier{}),
		billing.WithLogger(logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelDebug))),
	)
	require.NoError(t, err)

	_, err = mgr.Manage(context.Background(), "", billing.ManageOptions{Country: "US"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"event":"tax.classify"`)
	assert.Contains(t, out, `"taxed":false`)
	assert.Contains(t, out, `"event":"customer.create"`)
}

func TestManage_StepFailureStopsSequence(t *testing.T) {
	t.Parallel()

	p := &mockProcessor{}
	p.On("CreateCustomer", mock.Anything, mock.Anything).Return(&billing.Customer{ID: "cus_new"}, nil)
	p.On("AttachPaymentMethod", mock.Anything, "pm_bad", "cus_new").
		Return(&billing.PaymentError{Code: "card_declined", Message: "Your card was declined."})
	mgr := newManager(t, p, nil, billing.Config{})

	_, err := mgr.Manage(context.Background(), "", billing.ManageOptions{
		Country:       "US",
		PaymentMethod: "pm_bad",
		Plan:          "price_1",
	})
	require.Error(t, err)
	assert.True(t, billing.IsPaymentError(err))
	p.AssertNotCalled(t, "SetDefaultPaymentMethod", mock.Anything, mock.Anything, mock.Anything)
	p.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
}

func TestCreateOrUpdateCustomer(t *testing.T) {
	t.Parallel()

	details := billing.CustomerDetails{Email: "jane@example.com", Country: "US"}
	decision := tax.Decision{Exempt: tax.ExemptExempt}
	params := billing.CustomerParams{CustomerDetails: details, TaxExempt: tax.ExemptExempt}

	t.Run("updates existing", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("GetCustomer", mock.Anything, "cus_1").Return(&billing.Customer{ID: "cus_1"}, nil)
		p.On("UpdateCustomer", mock.Anything, "cus_1", params).Return(nil)
		mgr := newManager(t, p, nil, billing.Config{})

		c, err := mgr.CreateOrUpdateCustomer(context.Background(), "cus_1", details, decision)
		require.NoError(t, err)
		assert.Equal(t, "cus_1", c.ID)
		p.AssertExpectations(t)
		p.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	})

	t.Run("recreates missing customer", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("GetCustomer", mock.Anything, "cus_gone").Return(nil, billing.ErrCustomerNotFound)
		p.On("CreateCustomer", mock.Anything, params).Return(&billing.Customer{ID: "cus_2"}, nil)
		mgr := newManager(t, p, nil, billing.Config{})

		c, err := mgr.CreateOrUpdateCustomer(context.Background(), "cus_gone", details, decision)
		require.NoError(t, err)
		assert.Equal(t, "cus_2", c.ID)
		p.AssertExpectations(t)
	})

	t.Run("recreates when update reports missing", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("GetCustomer", mock.Anything, "cus_1").Return(&billing.Customer{ID: "cus_1"}, nil)
		p.On("UpdateCustomer", mock.Anything, "cus_1", params).Return(billing.ErrCustomerNotFound)
		p.On("CreateCustomer", mock.Anything, params).Return(&billing.Customer{ID: "cus_2"}, nil)
		mgr := newManager(t, p, nil, billing.Config{})

		c, err := mgr.CreateOrUpdateCustomer(context.Background(), "cus_1", details, decision)
		require.NoError(t, err)
		assert.Equal(t, "cus_2", c.ID)
	})

	t.Run("other lookup errors propagate", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("rate limited")
		p := &mockProcessor{}
		p.On("GetCustomer", mock.Anything, "cus_1").Return(nil, boom)
		mgr := newManager(t, p, nil, billing.Config{})

		_, err := mgr.CreateOrUpdateCustomer(context.Background(), "cus_1", details, decision)
		assert.ErrorIs(t, err, boom)
		p.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	})
}

func TestReconcileTaxID(t *testing.T) {
	t.Parallel()

	desired := &tax.ID{Type: tax.TypeEUVAT, Value: "SE2"}

	t.Run("removes stale and adds desired", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("DeleteTaxID", mock.Anything, "cus_1", "txi_old").Return(nil)
		p.On("CreateTaxID", mock.Anything, "cus_1", *desired).Return(nil)
		mgr := newManager(t, p, nil, billing.Config{})

		err := mgr.ReconcileTaxID(context.Background(), "cus_1", []billing.TaxIDRecord{
			{ID: "txi_old", Type: "eu_vat", Value: "SE1"},
			{ID: "txi_gb", Type: "gb_vat", Value: "GB1"},
		}, desired)
		require.NoError(t, err)
		p.AssertExpectations(t)
		p.AssertNotCalled(t, "DeleteTaxID", mock.Anything, "cus_1", "txi_gb")
	})

	t.Run("already present is a no-op", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		mgr := newManager(t, p, nil, billing.Config{})

		err := mgr.ReconcileTaxID(context.Background(), "cus_1", []billing.TaxIDRecord{
			{ID: "txi_1", Type: "eu_vat", Value: "SE2"},
		}, desired)
		require.NoError(t, err)
		p.AssertNotCalled(t, "CreateTaxID", mock.Anything, mock.Anything, mock.Anything)
		p.AssertNotCalled(t, "DeleteTaxID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("nil desired removes all", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("DeleteTaxID", mock.Anything, "cus_1", "txi_1").Return(nil)
		p.On("DeleteTaxID", mock.Anything, "cus_1", "txi_2").Return(nil)
		mgr := newManager(t, p, nil, billing.Config{})

		err := mgr.ReconcileTaxID(context.Background(), "cus_1", []billing.TaxIDRecord{
			{ID: "txi_1", Type: "eu_vat", Value: "SE1"},
			{ID: "txi_2", Type: "eu_vat", Value: "SE2"},
		}, nil)
		require.NoError(t, err)
		p.AssertExpectations(t)
	})

	t.Run("nil desired removes records of every type", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("DeleteTaxID", mock.Anything, "cus_1", "txi_1").Return(nil)
		p.On("DeleteTaxID", mock.Anything, "cus_1", "txi_2").Return(nil)
		mgr := newManager(t, p, nil, billing.Config{})

		err := mgr.ReconcileTaxID(context.Background(), "cus_1", []billing.TaxIDRecord{
			{ID: "txi_1", Type: "eu_vat", Value: "SE1"},
			{ID: "txi_2", Type: "gb_vat", Value: "GB1"},
		}, nil)
		require.NoError(t, err)
		p.AssertExpectations(t)
		p.AssertNumberOfCalls(t, "DeleteTaxID", 2)
	})

	t.Run("delete failure propagates", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("DeleteTaxID", mock.Anything, "cus_1", "txi_1").Return(errors.New("boom"))
		mgr := newManager(t, p, nil, billing.Config{})

		err := mgr.ReconcileTaxID(context.Background(), "cus_1", []billing.TaxIDRecord{
			{ID: "txi_1", Type: "eu_vat", Value: "SE1"},
		}, desired)
		assert.Error(t, err)
		p.AssertNotCalled(t, "CreateTaxID", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReconcilePaymentMethod(t *testing.T) {
	t.Parallel()

	t.Run("empty new id is a no-op", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		mgr := newManager(t, p, nil, billing.Config{})

		require.NoError(t, mgr.ReconcilePaymentMethod(context.Background(), "cus_1", "", "pm_old"))
		p.AssertNotCalled(t, "AttachPaymentMethod", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("same id is a no-op", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		mgr := newManager(t, p, nil, billing.Config{})

		require.NoError(t, mgr.ReconcilePaymentMethod(context.Background(), "cus_1", "pm_1", "pm_1"))
		p.AssertNotCalled(t, "AttachPaymentMethod", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("replaces and detaches old", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("AttachPaymentMethod", mock.Anything, "pm_new", "cus_1").Return(nil)
		p.On("SetDefaultPaymentMethod", mock.Anything, "cus_1", "pm_new").Return(nil)
		p.On("DetachPaymentMethod", mock.Anything, "pm_old").Return(nil)
		mgr := newManager(t, p, nil, billing.Config{})

		require.NoError(t, mgr.ReconcilePaymentMethod(context.Background(), "cus_1", "pm_new", "pm_old"))
		p.AssertExpectations(t)
	})

	t.Run("detach failure is ignored", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("AttachPaymentMethod", mock.Anything, "pm_new", "cus_1").Return(nil)
		p.On("SetDefaultPaymentMethod", mock.Anything, "cus_1", "pm_new").Return(nil)
		p.On("DetachPaymentMethod", mock.Anything, "pm_old").Return(errors.New("already detached"))
		mgr := newManager(t, p, nil, billing.Config{})

		assert.NoError(t, mgr.ReconcilePaymentMethod(context.Background(), "cus_1", "pm_new", "pm_old"))
	})

	t.Run("set default failure propagates", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("AttachPaymentMethod", mock.Anything, "pm_new", "cus_1").Return(nil)
		p.On("SetDefaultPaymentMethod", mock.Anything, "cus_1", "pm_new").Return(errors.New("boom"))
		mgr := newManager(t, p, nil, billing.Config{})

		assert.Error(t, mgr.ReconcilePaymentMethod(context.Background(), "cus_1", "pm_new", "pm_old"))
		p.AssertNotCalled(t, "DetachPaymentMethod", mock.Anything, mock.Anything)
	})
}

func TestReconcilePlanAndInvoice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("no subscription and no plan", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		mgr := newManager(t, p, nil, billing.Config{})

		res, err := mgr.ReconcilePlanAndInvoice(ctx, &billing.Customer{ID: "cus_1"}, billing.PlanChange{})
		require.NoError(t, err)
		assert.Equal(t, billing.RetryResult{}, res)
		p.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
	})

	t.Run("incomplete creation is left as is", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("CreateSubscription", mock.Anything, mock.Anything).
			Return(&billing.Subscription{ID: "sub_1", Status: billing.StatusIncomplete}, nil)
		mgr := newManager(t, p, nil, billing.Config{})

		_, err := mgr.ReconcilePlanAndInvoice(ctx, &billing.Customer{ID: "cus_1"}, billing.PlanChange{Plan: "price_1"})
		require.NoError(t, err)
		p.AssertNotCalled(t, "CancelSubscription", mock.Anything, mock.Anything)
	})

	t.Run("changes plan", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("ChangeSubscriptionPlan", mock.Anything, "sub_1", billing.PlanChangeParams{
			ItemID:  "si_1",
			Plan:    "price_2",
			TaxRate: "txr_1",
		}).Return(&billing.Subscription{ID: "sub_1"}, nil)
		mgr := newManager(t, p, nil, billing.Config{})

		c := subscribedCustomer(activeSub())
		_, err := mgr.ReconcilePlanAndInvoice(ctx, c, billing.PlanChange{Plan: "price_2", TaxRate: "txr_1"})
		require.NoError(t, err)
		p.AssertExpectations(t)
	})

	t.Run("same plan is untouched", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		mgr := newManager(t, p, nil, billing.Config{})

		_, err := mgr.ReconcilePlanAndInvoice(ctx, subscribedCustomer(activeSub()), billing.PlanChange{Plan: "price_1"})
		require.NoError(t, err)
		p.AssertNotCalled(t, "ChangeSubscriptionPlan", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("incomplete retries once", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("GetInvoice", mock.Anything, "in_1").Return(&billing.Invoice{
			ID:            "in_1",
			PaymentIntent: &billing.PaymentIntent{Status: billing.IntentRequiresPaymentMethod},
		}, nil)
		p.On("PayInvoice", mock.Anything, "in_1").Return(nil).Once()
		mgr := newManager(t, p, nil, billing.Config{})

		sub := activeSub()
		sub.Status = billing.StatusIncomplete
		res, err := mgr.ReconcilePlanAndInvoice(ctx, subscribedCustomer(sub), billing.PlanChange{})
		require.NoError(t, err)
		assert.Equal(t, billing.RetryResult{Retried: true, Succeeded: true}, res)
		p.AssertExpectations(t)
	})

	t.Run("incomplete requiring action is not retried", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("GetInvoice", mock.Anything, "in_1").Return(&billing.Invoice{
			ID:            "in_1",
			PaymentIntent: &billing.PaymentIntent{Status: billing.IntentRequiresAction},
		}, nil)
		mgr := newManager(t, p, nil, billing.Config{})

		sub := activeSub()
		sub.Status = billing.StatusIncomplete
		res, err := mgr.ReconcilePlanAndInvoice(ctx, subscribedCustomer(sub), billing.PlanChange{})
		require.NoError(t, err)
		assert.False(t, res.Retried)
		p.AssertNotCalled(t, "PayInvoice", mock.Anything, mock.Anything)
	})

	t.Run("past due retry failure is swallowed", func(t *testing.T) {
		t.Parallel()
		declined := &billing.PaymentError{Code: "card_declined", Message: "declined"}
		p := &mockProcessor{}
		p.On("PayInvoice", mock.Anything, "in_1").Return(declined)
		mgr := newManager(t, p, nil, billing.Config{})

		sub := activeSub()
		sub.Status = billing.StatusPastDue
		res, err := mgr.ReconcilePlanAndInvoice(ctx, subscribedCustomer(sub), billing.PlanChange{})
		require.NoError(t, err)
		assert.True(t, res.Retried)
		assert.False(t, res.Succeeded)
		assert.ErrorIs(t, res.Err, billing.ErrPaymentRetryFailed)
		assert.True(t, billing.IsPaymentError(res.Err))
	})
}
