package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider(stateURL string) *RobokassaProvider {
	return NewRobokassaProvider(RobokassaConfig{
		MerchantLogin: "achatavis",
		Password1:     "secret1",
		Password2:     "secret2",
		BaseURL:       "https://pay.example.com/Index.aspx",
		StateURL:      stateURL,
		Currency:      "EUR",
		Culture:       "fr",
	})
}

func TestCreateCheckout_SignsParams(t *testing.T) {
	p := testProvider("")

	checkout, err := p.CreateCheckout(context.Background(), CheckoutRequest{InvID: 42, Amount: 49, Description: "Starter"})
	require.NoError(t, err)

	u, err := url.Parse(checkout.URL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "achatavis", q.Get("MrchLogin"))
	assert.Equal(t, "49.00", q.Get("OutSum"))
	assert.Equal(t, "42", q.Get("InvId"))
	assert.Equal(t, md5Upper("achatavis:49.00:42:secret1"), q.Get("SignatureValue"))
	assert.Empty(t, q.Get("IsTest"))
}

func TestCreateCheckout_NotConfigured(t *testing.T) {
	p := NewRobokassaProvider(RobokassaConfig{})
	_, err := p.CreateCheckout(context.Background(), CheckoutRequest{InvID: 1, Amount: 1})
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}

func TestVerifyResult(t *testing.T) {
	p := testProvider("")
	sig := md5Upper("49.00:42:secret2")

	assert.True(t, p.VerifyResult(ResultNotification{OutSum: "49.00", InvID: 42, Signature: sig}))
	assert.True(t, p.VerifyResult(ResultNotification{OutSum: "49.00", InvID: 42, Signature: strings.ToLower(sig)}))
	assert.False(t, p.VerifyResult(ResultNotification{OutSum: "49.00", InvID: 43, Signature: sig}))
	assert.False(t, p.VerifyResult(ResultNotification{OutSum: "49.00", InvID: 42}))
}

func TestVerifySession_ParsesState(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		success bool
		status  SessionStatus
	}{
		{"paid", `<OperationStateResponse xmlns="http://merchant.roboxchange.com/WebService/"><Result><Code>0</Code></Result><State><Code>100</Code></State></OperationStateResponse>`, true, SessionStatusPaid},
		{"in progress", `<OperationStateResponse><Result><Code>0</Code></Result><State><Code>50</Code></State></OperationStateResponse>`, false, SessionStatusPending},
		{"not found", `<OperationStateResponse><Result><Code>3</Code><Description>not found</Description></Result></OperationStateResponse>`, false, SessionStatusPending},
		{"cancelled", `<OperationStateResponse><Result><Code>0</Code></Result><State><Code>10</Code></State></OperationStateResponse>`, false, SessionStatusCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "7", r.URL.Query().Get("InvoiceID"))
				assert.Equal(t, md5Upper("achatavis:7:secret2"), r.URL.Query().Get("Signature"))
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			v, err := testProvider(srv.URL).VerifySession(context.Background(), 7)
			require.NoError(t, err)
			assert.Equal(t, tc.success, v.Success)
			assert.Equal(t, tc.status, v.Status)
		})
	}
}

func TestVerifySession_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testProvider(srv.URL).VerifySession(context.Background(), 7)
	assert.ErrorIs(t, err, ErrProviderRejected)
}

func TestInvoiceIDs_Unique(t *testing.T) {
	ids, err := NewInvoiceIDs(1)
	require.NoError(t, err)

	seen := map[int64]bool{}
	for i := 0; i < 1000; i++ {
		id := ids.Next()
		assert.Positive(t, id)
		assert.False(t, seen[id])
		seen[id] = true
	}

	_, err = NewInvoiceIDs(5000)
	assert.Error(t, err)
}
