package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/billingkit/pkg/billing"
)

func TestGetSubscription(t *testing.T) {
	t.Parallel()

	t.Run("empty customer id", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		mgr := newManager(t, p, nil, billing.Config{})

		view, err := mgr.GetSubscription(context.Background(), "")
		require.NoError(t, err)
		assert.False(t, view.Valid)
		p.AssertNotCalled(t, "GetCustomer", mock.Anything, mock.Anything)
	})

	t.Run("parses retrieved customer", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("GetCustomer", mock.Anything, "cus_1").Return(subscribedCustomer(activeSub()), nil)
		mgr := newManager(t, p, nil, billing.Config{})

		view, err := mgr.GetSubscription(context.Background(), "cus_1")
		require.NoError(t, err)
		assert.True(t, view.Valid)
		assert.Equal(t, "Renews on Aug 2, 2019", view.Status)
	})

	t.Run("missing customer", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("GetCustomer", mock.Anything, "cus_x").Return(nil, billing.ErrCustomerNotFound)
		mgr := newManager(t, p, nil, billing.Config{})

		_, err := mgr.GetSubscription(context.Background(), "cus_x")
		assert.ErrorIs(t, err, billing.ErrCustomerNotFound)
	})
}

func TestCancelSubscription(t *testing.T) {
	t.Parallel()

	t.Run("at period end", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("GetCustomer", mock.Anything, "cus_1").Return(subscribedCustomer(activeSub()), nil)
		p.On("SetCancelAtPeriodEnd", mock.Anything, "sub_1", true).Return(nil)
		mgr := newManager(t, p, nil, billing.Config{})

		require.NoError(t, mgr.CancelSubscription(context.Background(), "cus_1", true))
		p.AssertExpectations(t)
	})

	t.Run("immediately", func(t *testing.T) {
		t.Parallel()
		p := &mockProcessor{}
		p.On("GetCustomer", mock.Anything, "cus_1").Return(subscribedCustomer(activeSub()), nil)
		p.On("CancelSubscription", mock.Anything, "sub_1").Return(nil)
		mgr := newManager(t, p, nil, billing.Config{})

		require.NoError(t, mgr.DeleteSubscription(context.Background(), "cus_1"))
		p.AssertExpectations(t)
	})

	t.Run("no plan is a no-op", func(t *testing.T) {
		t.Parallel()
		sub := activeSub()
		sub.Status = billing.StatusCanceled
		p := &mockProcessor{}
		p.On("GetCustomer", mock.Anything, "cus_1").Return(subscribedCustomer(sub), nil)
		mgr := newManager(t, p, nil, billing.Config{})

		require.NoError(t, mgr.CancelSubscription(context.Background(), "cus_1", true))
		p.AssertNotCalled(t, "SetCancelAtPeriodEnd", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reactivate", func(t *testing.T) {
		t.Parallel()
		sub := activeSub()
		sub.CancelAtPeriodEnd = true
		p := &mockProcessor{}
		p.On("GetCustomer", mock.Anything, "cus_1").Return(subscribedCustomer(sub), nil)
		p.On("SetCancelAtPeriodEnd", mock.Anything, "sub_1", false).Return(nil)
		mgr := newManager(t, p, nil, billing.Config{})

		require.NoError(t, mgr.ReactivateSubscription(context.Background(), "cus_1"))
		p.AssertExpectations(t)
	})
}

func TestDeleteCustomer(t *testing.T) {
	t.Parallel()

	p := &mockProcessor{}
	p.On("DeleteCustomer", mock.Anything, "cus_1").Return(nil)
	mgr := newManager(t, p, nil, billing.Config{})

	require.NoError(t, mgr.DeleteCustomer(context.Background(), "cus_1"))
	assert.ErrorIs(t, mgr.DeleteCustomer(context.Background(), ""), billing.ErrCustomerNotFound)
	p.AssertExpectations(t)
}

func TestReceipts(t *testing.T) {
	t.Parallel()

	p := &mockProcessor{}
	p.On("ListPaidInvoices", mock.Anything, "cus_1", 10).Return([]billing.Invoice{
		{ID: "in_1", Created: 1564747200, Currency: "usd", Total: 1999, PDFURL: "https://pay.example/in_1.pdf"},
	}, nil)
	mgr := newManager(t, p, nil, billing.Config{})

	receipts, err := mgr.Receipts(context.Background(), "cus_1")
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, "Aug 2, 2019", receipts[0].Date)
	assert.Equal(t, "USD", receipts[0].Currency)
	assert.Equal(t, int64(1999), receipts[0].Amount)
	assert.Contains(t, receipts[0].Display, "19.99")
	assert.Equal(t, "https://pay.example/in_1.pdf", receipts[0].URL)

	empty, err := mgr.Receipts(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestValidateCoupon(t *testing.T) {
	t.Parallel()

	p := &mockProcessor{}
	p.On("GetCoupon", mock.Anything, "VALID").Return(&billing.Coupon{ID: "VALID", Valid: true}, nil)
	p.On("GetCoupon", mock.Anything, "EXPIRED").Return(&billing.Coupon{ID: "EXPIRED"}, nil)
	p.On("GetCoupon", mock.Anything, "MISSING").Return(nil, billing.ErrCouponNotFound)
	p.On("GetCoupon", mock.Anything, "DOWN").Return(nil, errors.New("timeout"))
	mgr := newManager(t, p, nil, billing.Config{})

	ctx := context.Background()
	assert.True(t, mgr.ValidateCoupon(ctx, "VALID"))
	assert.False(t, mgr.ValidateCoupon(ctx, "EXPIRED"))
	assert.False(t, mgr.ValidateCoupon(ctx, "MISSING"))
	assert.False(t, mgr.ValidateCoupon(ctx, "DOWN"))
	assert.False(t, mgr.ValidateCoupon(ctx, " "))
}

func TestValidateVATNumber(t *testing.T) {
	t.Parallel()

	v := &mockVerifier{}
	v.On("Verify", mock.Anything, "IE", "6388047V").Return(true)
	mgr := newManager(t, &mockProcessor{}, v, billing.Config{})

	assert.True(t, mgr.ValidateVATNumber(context.Background(), " ie6388047v "))
	assert.False(t, mgr.ValidateVATNumber(context.Background(), "IE"))
	v.AssertNumberOfCalls(t, "Verify", 1)
}

func TestClientSecret(t *testing.T) {
	t.Parallel()

	p := &mockProcessor{}
	p.On("CreateSetupIntent", mock.Anything).Return("seti_1_secret", nil).Once()
	p.On("CreateSetupIntent", mock.Anything).Return("", errors.New("boom")).Once()
	mgr := newManager(t, p, nil, billing.Config{})

	secret, err := mgr.ClientSecret(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "seti_1_secret", secret)

	_, err = mgr.ClientSecret(context.Background())
	assert.Error(t, err)
}
