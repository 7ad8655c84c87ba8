package consent_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/safetyapp/internal/app/consent"
	consentfeature "github.com/dalemusser/safetyapp/internal/app/features/consent"
	uierrors "github.com/dalemusser/safetyapp/internal/app/features/errors"
	"github.com/dalemusser/safetyapp/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter() http.Handler {
	logger := zap.NewNop()
	m := consent.NewManager(consent.NewMemoryKV(), "2", 0, logger)
	h := consentfeature.NewHandler(m, uierrors.NewErrorLogger(logger), logger, false)
	r := chi.NewRouter()
	r.Mount("/consent", consentfeature.Routes(h))
	return r
}

// client replays the visitor cookie between requests.
type client struct {
	router  http.Handler
	visitor *http.Cookie
}

func (c *client) do(req *http.Request) *testutil.ResponseRecorder {
	if c.visitor != nil {
		req.AddCookie(c.visitor)
	}
	rec := testutil.NewRecorder()
	c.router.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == consentfeature.VisitorCookie {
			c.visitor = ck
		}
	}
	return rec
}

func TestVisitorCookieIssuedOnce(t *testing.T) {
	c := &client{router: newRouter()}

	rec := c.do(testutil.NewRequest(http.MethodGet, "/consent/"))
	rec.AssertStatus(t, http.StatusOK)
	require.NotNil(t, c.visitor)
	first := c.visitor.Value

	rec = c.do(testutil.NewRequest(http.MethodGet, "/consent/"))
	assert.Empty(t, rec.Result().Cookies(), "existing visitor keeps its cookie")
	assert.Equal(t, first, c.visitor.Value)
}

func TestBannerFlow(t *testing.T) {
	c := &client{router: newRouter()}

	var st consent.State
	c.do(testutil.NewRequest(http.MethodGet, "/consent/")).DecodeJSON(t, &st)
	assert.True(t, st.IsVisible)
	assert.True(t, st.Consent.Consents.Necessary)

	rec := c.do(testutil.NewRequest(http.MethodPost, "/consent/reject-all"))
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &st)
	assert.False(t, st.IsVisible)
	assert.False(t, st.Consent.Consents.Analytics)

	c.do(testutil.NewRequest(http.MethodGet, "/consent/")).DecodeJSON(t, &st)
	assert.False(t, st.IsVisible)
	assert.Equal(t, "2", st.Consent.Version)

	rec = c.do(testutil.NewJSONRequest(http.MethodPost, "/consent/", map[string]bool{"analytics": true}))
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &st)
	assert.True(t, st.Consent.Consents.Analytics)
	assert.True(t, st.Consent.Consents.Necessary)

	c.do(testutil.NewRequest(http.MethodDelete, "/consent/")).AssertStatus(t, http.StatusNoContent)
	c.do(testutil.NewRequest(http.MethodGet, "/consent/")).DecodeJSON(t, &st)
	assert.True(t, st.IsVisible)
}

func TestThemeNeedsPreferenceConsent(t *testing.T) {
	c := &client{router: newRouter()}
	theme := map[string]any{"mode": "dark", "primaryColor": "#000000", "fontSize": "large", "compact": true}

	c.do(testutil.NewJSONRequest(http.MethodPut, "/consent/theme", theme)).AssertStatus(t, http.StatusConflict)

	c.do(testutil.NewRequest(http.MethodPost, "/consent/accept-all")).AssertStatus(t, http.StatusOK)
	c.do(testutil.NewJSONRequest(http.MethodPut, "/consent/theme", theme)).AssertStatus(t, http.StatusOK)

	var got consent.ThemePreferences
	c.do(testutil.NewRequest(http.MethodGet, "/consent/theme")).DecodeJSON(t, &got)
	assert.Equal(t, "dark", got.Mode)
	assert.True(t, got.Compact)

	theme["mode"] = "neon"
	c.do(testutil.NewJSONRequest(http.MethodPut, "/consent/theme", theme)).AssertStatus(t, http.StatusBadRequest)
}
