package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/oauth"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const (
	handlerTestEmail    = "owner@cmlabs.co"
	handlerTestPassword = "correct-horse-battery"
	handlerTestRefresh  = "refresh-token-value"
	testFrontendURL     = "http://localhost:3000"
	testGoogleState     = "state-123"
)

// stubAuthService accepts a single set of credentials and one refresh token.
type stubAuthService struct {
	auth.AuthService
	loggedOut []string
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest, _ auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if req.Email != handlerTestEmail || req.Password != handlerTestPassword {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	return auth.TokenResponse{
		AccessToken:           "access-token-value",
		AccessTokenExpiresIn:  4102444800,
		RefreshToken:          handlerTestRefresh,
		RefreshTokenExpiresIn: 4102444800,
	}, nil
}

func (s *stubAuthService) LoginWithGoogle(_ context.Context, req auth.GoogleLoginRequest, _ auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if req.Email != handlerTestEmail {
		return auth.TokenResponse{}, auth.ErrGoogleAccountNotRegistered
	}
	return auth.TokenResponse{
		AccessToken:           "google-access-token",
		AccessTokenExpiresIn:  4102444800,
		RefreshToken:          handlerTestRefresh,
		RefreshTokenExpiresIn: 4102444800,
	}, nil
}

func (s *stubAuthService) RefreshToken(_ context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if req.RefreshToken != handlerTestRefresh {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	return auth.AccessTokenResponse{AccessToken: "new-access-token"}, nil
}

func (s *stubAuthService) Logout(_ context.Context, refreshToken string) error {
	s.loggedOut = append(s.loggedOut, refreshToken)
	return nil
}

func (s *stubAuthService) Me(ctx context.Context) (user.UserResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.UserResponse{ID: claims.UserID, CompanyID: claims.CompanyID, Role: claims.Role}, nil
}

func refreshCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refresh_token" {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Login_Success(t *testing.T) {
	f := newRouterFixture(t, &stubAuthService{})

	rec, resp := f.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    handlerTestEmail,
		"password": handlerTestPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, resp.Success)

	var tokens auth.TokenResponse
	require.NoError(t, json.Unmarshal(resp.Data, &tokens))
	assert.Equal(t, "access-token-value", tokens.AccessToken)

	cookie := refreshCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, handlerTestRefresh, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	f := newRouterFixture(t, &stubAuthService{})

	rec, resp := f.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    handlerTestEmail,
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Success)
	assert.Nil(t, refreshCookie(rec))
}

func TestAuthHandler_Login_InvalidJSON(t *testing.T) {
	f := newRouterFixture(t, &stubAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	f := newRouterFixture(t, &stubAuthService{})

	// Cookie first.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: handlerTestRefresh})
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Body fallback.
	rec, _ = f.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": handlerTestRefresh})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": "stale"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &stubAuthService{}
	f := newRouterFixture(t, svc)

	rec, _ := f.do(http.MethodPost, "/api/v1/auth/logout", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.loggedOut)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: handlerTestRefresh})
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{handlerTestRefresh}, svc.loggedOut)

	cookie := refreshCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestAuthHandler_Me(t *testing.T) {
	f := newRouterFixture(t, &stubAuthService{})

	rec, _ := f.do(http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, resp := f.do(http.MethodGet, "/api/v1/auth/me", "manager", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me user.UserResponse
	require.NoError(t, json.Unmarshal(resp.Data, &me))
	assert.Equal(t, testUserID, me.ID)
	assert.Equal(t, testCompanyID, me.CompanyID)
	assert.Equal(t, "manager", me.Role)
}

// stubGoogleService accepts the code "good-code" and reports email as the Google profile.
type stubGoogleService struct {
	email string
}

func (g stubGoogleService) GenerateState() (string, error) {
	return testGoogleState, nil
}

func (g stubGoogleService) RedirectURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + state
}

func (g stubGoogleService) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if code != "good-code" {
		return nil, assert.AnError
	}
	return &oauth2.Token{AccessToken: "google-access"}, nil
}

func (g stubGoogleService) UserInfo(_ context.Context, _ *oauth2.Token) (oauth.GoogleInformation, error) {
	return oauth.GoogleInformation{GoogleID: "1122334455", Email: g.email, VerifiedEmail: true}, nil
}

func googleCallback(f *routerFixture, query string, state string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/oauth/callback/google?"+query, nil)
	if state != "" {
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: state})
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func callbackLocation(t *testing.T, rec *httptest.ResponseRecorder) url.Values {
	t.Helper()
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/auth/callback/google", loc.Path)
	return loc.Query()
}

func TestAuthHandler_Google_DisabledWithoutClient(t *testing.T) {
	f := newRouterFixture(t, &stubAuthService{})

	rec, resp := f.do(http.MethodGet, "/api/v1/auth/oauth/google", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
}

func TestAuthHandler_Google_RedirectSetsState(t *testing.T) {
	f := newRouterFixtureWithGoogle(t, &stubAuthService{}, stubGoogleService{email: handlerTestEmail})

	rec, _ := f.do(http.MethodGet, "/api/v1/auth/oauth/google", "", nil)
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "state="+testGoogleState)

	var state *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "oauth_state" {
			state = c
		}
	}
	require.NotNil(t, state)
	assert.Equal(t, testGoogleState, state.Value)
	assert.True(t, state.HttpOnly)
	assert.Equal(t, "/api/v1/auth/oauth/callback/google", state.Path)
}

func TestAuthHandler_Google_CallbackSuccess(t *testing.T) {
	f := newRouterFixtureWithGoogle(t, &stubAuthService{}, stubGoogleService{email: handlerTestEmail})

	rec := googleCallback(f, "state="+testGoogleState+"&code=good-code", testGoogleState)
	q := callbackLocation(t, rec)
	assert.Equal(t, "google-access-token", q.Get("access_token"))
	assert.Empty(t, q.Get("error"))

	cookie := refreshCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, handlerTestRefresh, cookie.Value)
}

func TestAuthHandler_Google_CallbackFailures(t *testing.T) {
	tests := []struct {
		name   string
		email  string
		query  string
		cookie string
		reason string
	}{
		{"missing state cookie", handlerTestEmail, "state=" + testGoogleState + "&code=good-code", "", "state_cookie_not_found"},
		{"state mismatch", handlerTestEmail, "state=forged&code=good-code", testGoogleState, "state_mismatch"},
		{"consent denied", handlerTestEmail, "error=access_denied&state=" + testGoogleState, testGoogleState, "access_denied"},
		{"missing code", handlerTestEmail, "state=" + testGoogleState, testGoogleState, "code_empty"},
		{"exchange fails", handlerTestEmail, "state=" + testGoogleState + "&code=bad-code", testGoogleState, "token_verification_failed"},
		{"unregistered email", "stranger@example.com", "state=" + testGoogleState + "&code=good-code", testGoogleState, "login_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixtureWithGoogle(t, &stubAuthService{}, stubGoogleService{email: tt.email})

			rec := googleCallback(f, tt.query, tt.cookie)
			q := callbackLocation(t, rec)
			assert.Equal(t, tt.reason, q.Get("error"))
			assert.Empty(t, q.Get("access_token"))
			assert.Nil(t, refreshCookie(rec))
		})
	}
}
