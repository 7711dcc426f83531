package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/nest-ms-kv/payments-microservice/internal/module/payment/provider"
	apperrors "github.com/nest-ms-kv/payments-microservice/internal/shared/errors"
	"github.com/nest-ms-kv/payments-microservice/internal/utils/metrics"
)

type fakeProvider struct {
	lastParams *provider.CheckoutSessionParams
	err        error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) CreateCheckoutSession(ctx context.Context, params *provider.CheckoutSessionParams) (*provider.CheckoutSession, error) {
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return &provider.CheckoutSession{
		URL:        "https://checkout.example.com/cs_test_1",
		SuccessURL: params.SuccessURL,
		CancelURL:  params.CancelURL,
	}, nil
}

func (f *fakeProvider) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	return stripe.Event{}, errors.New("not implemented")
}

func newTestService(p provider.CheckoutProvider) *Service {
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())
	return NewService(p, RedirectURLs{
		SuccessURL: "https://shop.example.com/success",
		CancelURL:  "https://shop.example.com/cancel",
	}, m, zap.NewNop())
}

func validRequest() *PaymentSessionRequest {
	return &PaymentSessionRequest{
		Currency: "usd",
		OrderID:  "o1",
		Items: []LineItem{
			{Name: "A", Price: 10.00, Quantity: 2},
		},
	}
}

func TestCreatePaymentSession(t *testing.T) {
	t.Run("creates session with converted amounts", func(t *testing.T) {
		p := &fakeProvider{}
		svc := newTestService(p)

		result, err := svc.CreatePaymentSession(context.Background(), validRequest())
		require.NoError(t, err)
		require.NotNil(t, result)

		require.Len(t, p.lastParams.Items, 1)
		assert.Equal(t, int64(1000), p.lastParams.Items[0].UnitAmount)
		assert.Equal(t, int64(2), p.lastParams.Items[0].Quantity)
		assert.Equal(t, "A", p.lastParams.Items[0].Name)
		assert.Equal(t, "usd", p.lastParams.Currency)
		assert.Equal(t, "o1", p.lastParams.OrderID)
	})

	t.Run("redirect urls come from config, never the caller", func(t *testing.T) {
		p := &fakeProvider{}
		svc := newTestService(p)

		result, err := svc.CreatePaymentSession(context.Background(), validRequest())
		require.NoError(t, err)

		assert.Equal(t, "https://shop.example.com/success", p.lastParams.SuccessURL)
		assert.Equal(t, "https://shop.example.com/cancel", p.lastParams.CancelURL)
		assert.Equal(t, "https://shop.example.com/success", result.SuccessURL)
		assert.Equal(t, "https://shop.example.com/cancel", result.CancelURL)
	})

	t.Run("rejects empty items", func(t *testing.T) {
		svc := newTestService(&fakeProvider{})
		req := validRequest()
		req.Items = nil

		_, err := svc.CreatePaymentSession(context.Background(), req)
		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		svc := newTestService(&fakeProvider{})
		req := validRequest()
		req.Items[0].Quantity = 0

		_, err := svc.CreatePaymentSession(context.Background(), req)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		svc := newTestService(&fakeProvider{})
		req := validRequest()
		req.Items[0].Price = -0.01

		_, err := svc.CreatePaymentSession(context.Background(), req)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("rejects missing currency and order id", func(t *testing.T) {
		svc := newTestService(&fakeProvider{})

		req := validRequest()
		req.Currency = ""
		_, err := svc.CreatePaymentSession(context.Background(), req)
		require.Error(t, err)

		req = validRequest()
		req.OrderID = ""
		_, err = svc.CreatePaymentSession(context.Background(), req)
		require.Error(t, err)
	})

	t.Run("maps provider failure to upstream error", func(t *testing.T) {
		svc := newTestService(&fakeProvider{err: errors.New("connection refused")})

		_, err := svc.CreatePaymentSession(context.Background(), validRequest())
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "UPSTREAM_ERROR", appErr.Code)
	})
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  int64
	}{
		{"exact cents", 19.99, 1999},
		{"whole amount", 10.00, 1000},
		{"sub-cent rounds up", 0.005, 1},
		{"sub-cent rounds down", 0.004, 0},
		{"zero", 0, 0},
		{"large amount", 12345.67, 1234567},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toMinorUnits(tt.price))
		})
	}
}
