package client

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"foodrescue-platform/internal/config"
	"foodrescue-platform/internal/model"
)

// Role is the dashboard role carried into navigation.
type Role string

const (
	RoleConsumer Role = "CONSUMER"
	RoleMerchant Role = "MERCHANT"
)

// Route names the screen a successful login navigates to.
type Route string

const (
	RouteMerchantSetup Route = "MerchantSetup"
	RouteHome          Route = "Home"
)

// ErrLoginCancelled is returned when the user declines the simulated
// login prompt. No request is issued.
var ErrLoginCancelled = errors.New("login cancelled")

// LoginOutcome is the result of a successful authentication: the session
// record plus the single navigation it implies.
type LoginOutcome struct {
	Session *model.User
	Route   Route
	Role    Role
}

// Confirmer presents a yes/no prompt to the user.
type Confirmer interface {
	Confirm(title, message string) bool
}

// TokenSource yields a real OAuth access token for a provider. Wired to
// the platform SDK in the app; tests inject fakes.
type TokenSource interface {
	AccessToken(ctx context.Context, provider string) (string, error)
}

// Authenticator resolves provider identities into sessions.
//
// Providers with real credentials (google, facebook) go through the
// TokenSource; unconfigured or demo-mode providers never issue an OAuth
// request and instead substitute a simulated token after a confirmation
// prompt.
type Authenticator struct {
	api       *Client
	providers config.ProvidersConfig
	confirm   Confirmer
	tokens    TokenSource

	// randInt is swappable for deterministic simulated tokens in tests.
	randInt func(n int) int
}

// NewAuthenticator creates an authenticator. tokens may be nil when no
// real provider SDK is available.
func NewAuthenticator(api *Client, providers config.ProvidersConfig, confirm Confirmer, tokens TokenSource) *Authenticator {
	return &Authenticator{
		api:       api,
		providers: providers,
		confirm:   confirm,
		tokens:    tokens,
		randInt:   rand.Intn,
	}
}

// SimulatedToken builds a demo identity token: deterministic prefix plus
// a random numeric suffix.
func (a *Authenticator) SimulatedToken(provider string) string {
	return fmt.Sprintf("simulated_%s_id_%d", provider, a.randInt(1000))
}

// realToken derives the identity token from a provider access token:
// provider prefix plus the first ten characters of the access token.
func realToken(provider, accessToken string) string {
	prefix := map[string]string{
		"google":   "google_user_",
		"facebook": "fb_user_",
	}[provider]
	if len(accessToken) > 10 {
		accessToken = accessToken[:10]
	}
	return prefix + accessToken
}

// DerivedEmail is the placeholder email sent with provider logins.
func DerivedEmail(provider string) string {
	return fmt.Sprintf("user_%s@example.com", provider)
}

// LoginWith runs the full login path for google or facebook, honoring
// the gating policy: unconfigured or demo-mode providers route through
// the simulated-identity confirmation prompt and never touch the
// provider's OAuth endpoint.
func (a *Authenticator) LoginWith(ctx context.Context, provider string) (*LoginOutcome, error) {
	if !a.providers.Configured(provider) || a.providers.DemoMode || a.tokens == nil {
		if a.confirm != nil && !a.confirm.Confirm("Demo login",
			fmt.Sprintf("%s sign-in is not configured. Continue with a demo account?", provider)) {
			return nil, ErrLoginCancelled
		}
		return a.Authenticate(ctx, provider, a.SimulatedToken(provider))
	}

	accessToken, err := a.tokens.AccessToken(ctx, provider)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return a.Authenticate(ctx, provider, realToken(provider, accessToken))
}

// Authenticate exchanges the identity token for a session record via a
// single POST /login and decides the one navigation that follows: a
// non-merchant record routes to merchant setup carrying the record, a
// merchant record routes to the dashboard with role MERCHANT.
func (a *Authenticator) Authenticate(ctx context.Context, provider, identityToken string) (*LoginOutcome, error) {
	user, err := a.api.Login(ctx, provider, identityToken, DerivedEmail(provider))
	if err != nil {
		return nil, err
	}

	outcome := &LoginOutcome{Session: user}
	if user.IsMerchant {
		outcome.Route = RouteHome
		outcome.Role = RoleMerchant
	} else {
		outcome.Route = RouteMerchantSetup
		outcome.Role = RoleConsumer
	}
	return outcome, nil
}
