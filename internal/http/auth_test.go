package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"legacyvoices-backend-go/internal/services"
)

func testTokens() services.TokenService {
	return services.TokenService{
		Secret: []byte("test-secret"),
		Issuer: "legacyvoices",
		TTL:    24 * time.Hour,
	}
}

// Requests that fail token validation are turned away before the
// administrator lookup, so these run without a database.
func TestWithAuthRejectsBadCredentials(t *testing.T) {
	tokens := testTokens()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})
	handler := WithAuth(tokens, nil)(next)

	cases := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"missing header", func(r *http.Request) {}},
		{"not bearer", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }},
		{"expired token", func(r *http.Request) {
			expired := testTokens()
			expired.TTL = -time.Minute
			signed, _, err := expired.CreateToken("reviewer")
			require.NoError(t, err)
			r.Header.Set("Authorization", "Bearer "+signed)
		}},
		{"wrong issuer", func(r *http.Request) {
			other := testTokens()
			other.Issuer = "somebody-else"
			signed, _, err := other.CreateToken("reviewer")
			require.NoError(t, err)
			r.Header.Set("Authorization", "Bearer "+signed)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestCurrentAdminDefaultsEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, "", CurrentAdmin(req))
}
