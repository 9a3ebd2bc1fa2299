package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	actors map[int]*Actor
}

func (s stubLoader) LoadActor(_ context.Context, userID int) (*Actor, error) {
	if a, ok := s.actors[userID]; ok {
		return a, nil
	}
	return nil, assert.AnError
}

func newRouter(tokens *Tokens, loader ActorLoader, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authenticate(tokens, loader))
	chain := append(handlers, func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	r.GET("/finance/payments", chain...)
	return r
}

func TestRequireLogin(t *testing.T) {
	tokens := NewTokens(testSecret)
	loader := stubLoader{actors: map[int]*Actor{
		42: NewActor(42, "staff@gymdesk.local", "administration", true, false, true, nil),
	}}
	router := newRouter(tokens, loader, RequireLogin("/auth/login"))

	pair, err := tokens.Issue(subject)
	require.NoError(t, err)

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantHeader string
	}{
		{"no token redirects", func(r *http.Request) {}, http.StatusFound, "/auth/login?next=%2Ffinance%2Fpayments%3Fpage%3D2"},
		{"bad header redirects", func(r *http.Request) { r.Header.Set("Authorization", "Token abc") }, http.StatusFound, ""},
		{"bearer token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.AccessToken) }, http.StatusOK, ""},
		{"cookie token", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "access_token", Value: pair.AccessToken}) }, http.StatusOK, ""},
		{"refresh token rejected", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.RefreshToken) }, http.StatusFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/finance/payments?page=2", nil)
			tt.setup(req)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantHeader != "" {
				assert.Equal(t, tt.wantHeader, w.Header().Get("Location"))
			}
		})
	}
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	tokens := NewTokens(testSecret)
	router := newRouter(tokens, stubLoader{}, RequireLogin("/auth/login"))

	pair, _ := tokens.Issue(subject)
	req := httptest.NewRequest(http.MethodGet, "/finance/payments", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
}

func withActor(a *Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a != nil {
			SetActor(c, a)
		}
		c.Next()
	}
}

func TestRequireStaff(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		actor      *Actor
		wantStatus int
	}{
		{"staff", NewActor(1, "a@x", "administration", true, false, true, nil), http.StatusOK},
		{"superuser", NewActor(1, "a@x", "administration", false, true, true, nil), http.StatusOK},
		{"client", NewActor(1, "a@x", "client", false, false, true, nil), http.StatusForbidden},
		{"anonymous", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/dashboard", withActor(tt.actor), RequireStaff(), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRequireCapability(t *testing.T) {
	gin.SetMode(gin.TestMode)
	policy := newTestPolicy()
	retry := Cap("whisper", ActionChange, "emailnotification")

	clerk := NewActor(2, "clerk@x", "administration", true, false, true, []Capability{retry})
	viewer := NewActor(3, "viewer@x", "administration", true, false, true, nil)

	for _, tc := range []struct {
		actor *Actor
		want  int
	}{{clerk, http.StatusOK}, {viewer, http.StatusForbidden}} {
		r := gin.New()
		r.POST("/retry", withActor(tc.actor), RequireCapability(policy, retry), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/retry", nil))
		assert.Equal(t, tc.want, w.Code)
	}

	assert.Panics(t, func() { RequireCapability(policy, Cap("whisper", ActionChange, "sms")) })
}
