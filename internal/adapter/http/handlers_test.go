package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Jmaes1212/artiq-front-end/internal/adapter/store"
	domain "github.com/Jmaes1212/artiq-front-end/internal/entity"
	"github.com/Jmaes1212/artiq-front-end/internal/logging"
	"github.com/Jmaes1212/artiq-front-end/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logging.Init("test", filepath.Join(os.TempDir(), "artiq-test.log"), "error")
	os.Exit(m.Run())
}

type fakePayments struct {
	retrieve func(id string) (*domain.PaymentAuthorization, error)
	create   func(amount int64, currency string) (*domain.PaymentAuthorization, error)
	captured []string
	canceled []string
	refunded []string
}

func (f *fakePayments) Create(_ context.Context, amount int64, currency string, _ map[string]string) (*domain.PaymentAuthorization, error) {
	if f.create == nil {
		return nil, usecase.ErrPaymentProviderUnavailable
	}
	return f.create(amount, currency)
}

func (f *fakePayments) Retrieve(_ context.Context, id string) (*domain.PaymentAuthorization, error) {
	if f.retrieve == nil {
		return nil, usecase.ErrPaymentNotFound
	}
	return f.retrieve(id)
}

func (f *fakePayments) Capture(_ context.Context, id string) (*domain.PaymentAuthorization, error) {
	f.captured = append(f.captured, id)
	return &domain.PaymentAuthorization{ID: id, Status: domain.PaymentSucceeded}, nil
}

func (f *fakePayments) Cancel(_ context.Context, id string) error {
	f.canceled = append(f.canceled, id)
	return nil
}

func (f *fakePayments) Refund(_ context.Context, id string) error {
	f.refunded = append(f.refunded, id)
	return nil
}

type fakeFulfilment struct {
	submit func(req *domain.CheckoutRequest) (map[string]any, error)
	calls  int
}

func (f *fakeFulfilment) SubmitOrder(_ context.Context, req *domain.CheckoutRequest) (map[string]any, error) {
	f.calls++
	if f.submit == nil {
		return nil, &usecase.FulfilmentError{StatusCode: 500, Message: "no fulfilment stub"}
	}
	return f.submit(req)
}

type testEnv struct {
	router     *gin.Engine
	payments   *fakePayments
	fulfilment *fakeFulfilment
	orders     *store.MemoryStore
}

func newEnv(t *testing.T, configured bool, webhookSecret string) *testEnv {
	t.Helper()
	payments := &fakePayments{}
	fulfilment := &fakeFulfilment{}
	orders := store.NewMemoryStore()

	router := NewRouter(RouterDeps{
		Payments:      NewPaymentHandler(usecase.NewIntents(payments), "pk_test_123", configured),
		Checkout:      NewCheckoutHandler(usecase.NewCheckout(payments, fulfilment, orders, logging.New("test"))),
		Orders:        NewOrderHandler(orders),
		Pricing:       NewPricingHandler(),
		WebhookSecret: webhookSecret,
		StaticDir:     t.TempDir(),
	})
	return &testEnv{router: router, payments: payments, fulfilment: fulfilment, orders: orders}
}

func (e *testEnv) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

const validCheckoutBody = `{
	"customer": {"name": "Ada Lovelace", "email": "ada@example.com"},
	"shipping": {"address1": "1 Analytical Way", "city": "London", "postcode": "N1 9GU", "countryCode": "GB", "methodCode": "Budget", "price": 899},
	"items": [{"productId": "print-16x20", "sku": "GLOBAL-BFP-16X20", "assetUrl": "https://x/img.jpg", "quantity": 1, "price": 45}],
	"paymentIntentId": "pi_1"
}`

func TestHealth(t *testing.T) {
	env := newEnv(t, false, "")
	w := env.do(http.MethodGet, "/api/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["time"])
}

func TestStripeConfig(t *testing.T) {
	env := newEnv(t, false, "")
	w := env.do(http.MethodGet, "/api/stripe/config", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	env = newEnv(t, true, "")
	w = env.do(http.MethodGet, "/api/stripe/config", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pk_test_123", decode(t, w)["publishableKey"])
}

func TestCreateIntent(t *testing.T) {
	env := newEnv(t, true, "")
	env.payments.create = func(amount int64, currency string) (*domain.PaymentAuthorization, error) {
		return &domain.PaymentAuthorization{
			ID:           "pi_new",
			Amount:       amount,
			Currency:     currency,
			Status:       domain.PaymentRequiresCapture,
			ClientSecret: "pi_new_secret",
		}, nil
	}

	w := env.do(http.MethodPost, "/api/payments/create-intent", `{"amount": 4999}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "pi_new_secret", body["clientSecret"])
	assert.Equal(t, "pi_new", body["paymentIntentId"])
	assert.Equal(t, float64(4999), body["amount"])
	assert.Equal(t, "gbp", body["currency"], "currency defaults to gbp")
}

func TestCreateIntentInvalidAmount(t *testing.T) {
	env := newEnv(t, true, "")
	w := env.do(http.MethodPost, "/api/payments/create-intent", `{"amount": 0}`, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid payment amount", decode(t, w)["error"])
}

func TestCreateIntentUnconfigured(t *testing.T) {
	env := newEnv(t, false, "")
	w := env.do(http.MethodPost, "/api/payments/create-intent", `{"amount": 4999}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCheckoutAccepted(t *testing.T) {
	env := newEnv(t, true, "")
	env.payments.retrieve = func(id string) (*domain.PaymentAuthorization, error) {
		return &domain.PaymentAuthorization{ID: id, Amount: 4999, Currency: "gbp", Status: domain.PaymentRequiresCapture}, nil
	}
	env.fulfilment.submit = func(*domain.CheckoutRequest) (map[string]any, error) {
		return map[string]any{"id": "ord_1", "status": "InProgress"}, nil
	}

	w := env.do(http.MethodPost, "/api/checkout", validCheckoutBody, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ord_1", body["orderId"])
	assert.Equal(t, "InProgress", body["status"])
	assert.NotNil(t, body["prodigiResponse"])
	assert.Equal(t, []string{"pi_1"}, env.payments.captured)

	// the accepted order is queryable afterwards
	w = env.do(http.MethodGet, "/api/orders/ord_1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "InProgress", decode(t, w)["status"])
}

func TestCheckoutValidationFailure(t *testing.T) {
	env := newEnv(t, true, "")

	body := strings.Replace(validCheckoutBody, `"email": "ada@example.com"`, `"email": ""`, 1)
	w := env.do(http.MethodPost, "/api/checkout", body, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	details, ok := resp["details"].(map[string]any)
	require.True(t, ok)
	violations, ok := details["violations"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, violations)
	assert.Zero(t, env.fulfilment.calls, "invalid requests reach no provider")
}

func TestCheckoutPaymentIncomplete(t *testing.T) {
	env := newEnv(t, true, "")
	env.payments.retrieve = func(id string) (*domain.PaymentAuthorization, error) {
		return &domain.PaymentAuthorization{ID: id, Status: domain.PaymentCanceled}, nil
	}

	w := env.do(http.MethodPost, "/api/checkout", validCheckoutBody, nil)

	require.Equal(t, http.StatusPaymentRequired, w.Code)
	resp := decode(t, w)
	details, ok := resp["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "canceled", details["status"])
	assert.Zero(t, env.fulfilment.calls)
}

func TestCheckoutFulfilmentErrorPassesStatusThrough(t *testing.T) {
	env := newEnv(t, true, "")
	env.payments.retrieve = func(id string) (*domain.PaymentAuthorization, error) {
		return &domain.PaymentAuthorization{ID: id, Status: domain.PaymentRequiresCapture}, nil
	}
	env.fulfilment.submit = func(*domain.CheckoutRequest) (map[string]any, error) {
		return nil, &usecase.FulfilmentError{
			StatusCode: http.StatusBadRequest,
			Message:    "Prodigi API error 400: bad sku",
			Details:    map[string]any{"outcome": "ValidationFailed"},
		}
	}

	w := env.do(http.MethodPost, "/api/checkout", validCheckoutBody, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Contains(t, resp["error"], "Prodigi API error 400")
	assert.Equal(t, []string{"pi_1"}, env.payments.canceled, "the hold is released")
}

func TestCheckoutNoCardHintReplacesMessage(t *testing.T) {
	env := newEnv(t, true, "")
	env.payments.retrieve = func(id string) (*domain.PaymentAuthorization, error) {
		return &domain.PaymentAuthorization{ID: id, Status: domain.PaymentRequiresCapture}, nil
	}
	env.fulfilment.submit = func(*domain.CheckoutRequest) (map[string]any, error) {
		return nil, &usecase.FulfilmentError{
			StatusCode: http.StatusBadRequest,
			Message:    "Prodigi API error 400: no card details",
			Hint:       "Add a payment method in Prodigi, then try again.",
		}
	}

	w := env.do(http.MethodPost, "/api/checkout", validCheckoutBody, nil)
	assert.Contains(t, decode(t, w)["error"], "Add a payment method")
}

func TestCheckoutPaymentNotFound(t *testing.T) {
	env := newEnv(t, true, "")
	env.payments.retrieve = func(string) (*domain.PaymentAuthorization, error) {
		return nil, usecase.ErrPaymentNotFound
	}

	w := env.do(http.MethodPost, "/api/checkout", validCheckoutBody, nil)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestCheckoutProviderUnavailable(t *testing.T) {
	env := newEnv(t, true, "")
	env.payments.retrieve = func(string) (*domain.PaymentAuthorization, error) {
		return nil, usecase.ErrPaymentProviderUnavailable
	}

	w := env.do(http.MethodPost, "/api/checkout", validCheckoutBody, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestOrderNotFound(t *testing.T) {
	env := newEnv(t, true, "")
	w := env.do(http.MethodGet, "/api/orders/nope", "", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found", decode(t, w)["error"])
}

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookSignatureVerification(t *testing.T) {
	const secret = "whsec_test"
	env := newEnv(t, true, secret)
	payload := `{"id": "ord_1", "status": "Complete"}`

	// valid signature
	w := env.do(http.MethodPost, "/api/webhooks/prodigi", payload,
		map[string]string{"x-prodigi-signature": sign(secret, payload)})
	require.Equal(t, http.StatusAccepted, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["received"])
	assert.Equal(t, "ord_1", body["orderId"])

	// tampered signature
	w = env.do(http.MethodPost, "/api/webhooks/prodigi", payload,
		map[string]string{"x-prodigi-signature": sign("wrong", payload)})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookWithoutSecretIsAccepted(t *testing.T) {
	env := newEnv(t, true, "")

	w := env.do(http.MethodPost, "/api/webhooks/prodigi", `{"id": "ord_2", "status": "Shipped"}`, nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	entry, err := env.orders.Get(context.Background(), "ord_2")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Shipped", entry.Status)
}

func TestWebhookWithoutIDReportsNullOrder(t *testing.T) {
	env := newEnv(t, true, "")

	w := env.do(http.MethodPost, "/api/webhooks/prodigi", `{"status": "Shipped"}`, nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Nil(t, decode(t, w)["orderId"])
}

func TestWebhookInvalidJSON(t *testing.T) {
	env := newEnv(t, true, "")
	w := env.do(http.MethodPost, "/api/webhooks/prodigi", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShippingOptions(t *testing.T) {
	env := newEnv(t, true, "")
	w := env.do(http.MethodGet, "/api/shipping/options", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	options, ok := body["options"].([]any)
	require.True(t, ok)
	assert.Len(t, options, 3)
	assert.Equal(t, "gbp", body["currency"])
}

func TestCartQuote(t *testing.T) {
	env := newEnv(t, true, "")
	body := `{"items": [{"sku": "GLOBAL-BFP-16X20", "price": 45, "quantity": 1}], "countryCode": "GB"}`

	w := env.do(http.MethodPost, "/api/cart/quote", body, nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, float64(4500), resp["subtotal"])
	assert.Equal(t, float64(899), resp["shipping"])
	assert.Equal(t, float64(5399), resp["total"])
	assert.Equal(t, "standard-tracked-uk", resp["shippingOption"])
}

func TestUnknownAPIEndpoint(t *testing.T) {
	env := newEnv(t, true, "")
	w := env.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaticAssetServing(t *testing.T) {
	payments := &fakePayments{}
	fulfilment := &fakeFulfilment{}
	orders := store.NewMemoryStore()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>artiq</html>"), 0644))

	router := NewRouter(RouterDeps{
		Payments:  NewPaymentHandler(usecase.NewIntents(payments), "", false),
		Checkout:  NewCheckoutHandler(usecase.NewCheckout(payments, fulfilment, orders, logging.New("test"))),
		Orders:    NewOrderHandler(orders),
		Pricing:   NewPricingHandler(),
		StaticDir: dir,
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "artiq")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing.css", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
