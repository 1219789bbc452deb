package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appcfg "github.com/coderhuBypassion/BriefBank/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRazorpayCreateOrder(t *testing.T) {
	var got OrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "order_9A33XWu170gUtm", "entity": "order", "amount": got.Amount,
			"currency": got.Currency, "receipt": got.Receipt, "status": "created",
		})
	}))
	defer srv.Close()

	rp := NewRazorpay(appcfg.PaymentConfig{Endpoint: srv.URL + "/", KeyID: "rzp_test_key", KeySecret: "secret"})
	order, err := rp.CreateOrder(context.Background(), OrderRequest{Amount: 49900, Currency: "INR", Receipt: "order_u_1"})
	require.NoError(t, err)
	assert.Equal(t, "order_9A33XWu170gUtm", order.ID)
	assert.EqualValues(t, 49900, order.Amount)
	assert.Equal(t, "order_u_1", got.Receipt)
	assert.Equal(t, "rzp_test_key", rp.KeyID())
}

func TestRazorpayCreateOrderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`))
	}))
	defer srv.Close()

	rp := NewRazorpay(appcfg.PaymentConfig{Endpoint: srv.URL, KeyID: "k", KeySecret: "s"})
	_, err := rp.CreateOrder(context.Background(), OrderRequest{Amount: 1, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication failed")

	_, err = NewRazorpay(appcfg.PaymentConfig{Endpoint: srv.URL}).CreateOrder(context.Background(), OrderRequest{})
	assert.Error(t, err)
}

func TestSignatures(t *testing.T) {
	rp := NewRazorpay(appcfg.PaymentConfig{KeySecret: "key_secret", WebhookSecret: "hook_secret"})

	sig := Sign("key_secret", []byte("order_1|pay_1"))
	assert.Len(t, sig, 64)
	assert.True(t, rp.VerifySignature("order_1", "pay_1", sig))
	assert.False(t, rp.VerifySignature("order_1", "pay_2", sig))
	assert.False(t, rp.VerifySignature("order_1", "pay_1", ""))
	assert.False(t, rp.VerifySignature("order_1", "pay_1", Sign("other", []byte("order_1|pay_1"))))

	body := []byte(`{"event":"payment.captured"}`)
	assert.True(t, rp.VerifyWebhook(body, Sign("hook_secret", body)))
	assert.False(t, rp.VerifyWebhook(body, Sign("key_secret", body)))

	unset := NewRazorpay(appcfg.PaymentConfig{})
	assert.False(t, unset.VerifyWebhook(body, Sign("", body)))
}
