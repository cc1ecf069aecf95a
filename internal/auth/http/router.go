package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger
	secureCookies bool

	store store.Store

	AuthService    *service.AuthService
	TokenService   *service.TokenService
	SessionService *service.SessionService
	MFAService     *service.MFAService
}

func NewRouter(
	buildVersion string,
	secureCookies bool,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		secureCookies: secureCookies,
		store:         st,
		logger:        logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPassword()
	r.registerMagicLink()
	r.registerMFA()
	r.registerUsers()
	r.registerSessions()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authn builds the access-token middleware bound to our verifier.
func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(r.TokenService.VerifyAccess)
}

func (r *Router) registerAuth() {
	cookies := cookieWriter{secure: r.secureCookies}

	// POST /register - strict rate limit by IP (account creation)
	registerHandler := &RegisterHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - strict rate limit by IP (credential guessing)
	loginHandler := &LoginHandler{AuthService: r.AuthService, Cookies: cookies}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /refresh - moderate rate limit (every client refreshes periodically)
	refreshHandler := &RefreshHandler{AuthService: r.AuthService, Cookies: cookies}
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /logout - requires a valid access token
	logoutHandler := &LogoutHandler{AuthService: r.AuthService, Cookies: cookies}
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(logoutHandler,
			r.authn(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /verify-email - strict rate limit by IP (code guessing)
	verifyHandler := &VerifyEmailHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/auth/verify-email",
		httpx.Chain(verifyHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerPassword() {
	h := &PasswordHandler{AuthService: r.AuthService}

	// Both endpoints are unauthenticated and brute-forceable: strict limits.
	r.Mux.Handle("POST /v1/auth/password/forgot",
		httpx.Chain(http.HandlerFunc(h.HandleForgot),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/password/reset",
		httpx.Chain(http.HandlerFunc(h.HandleReset),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerMagicLink() {
	h := &MagicLinkHandler{
		AuthService: r.AuthService,
		Cookies:     cookieWriter{secure: r.secureCookies},
		AppOrigin:   r.AuthService.AppOrigin,
	}

	r.Mux.Handle("POST /v1/auth/magic/send",
		httpx.Chain(http.HandlerFunc(h.HandleSend),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET callback - the link from the email lands here
	r.Mux.Handle("GET /v1/auth/magic/callback",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerMFA() {
	h := &MFAHandler{
		AuthService: r.AuthService,
		MFAService:  r.MFAService,
		Cookies:     cookieWriter{secure: r.secureCookies},
	}

	// POST /mfa/setup - authenticated, moderate limit
	r.Mux.Handle("POST /v1/auth/mfa/setup",
		httpx.Chain(http.HandlerFunc(h.HandleSetup),
			r.authn(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /mfa/verify - authenticated, strict limit (TOTP brute force)
	r.Mux.Handle("POST /v1/auth/mfa/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			r.authn(),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// DELETE /mfa - authenticated, moderate limit
	r.Mux.Handle("DELETE /v1/auth/mfa",
		httpx.Chain(http.HandlerFunc(h.HandleRevoke),
			r.authn(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /mfa/login - unauthenticated (completes a challenged login),
	// strict limit (TOTP brute force)
	r.Mux.Handle("POST /v1/auth/mfa/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UserInfoHandler{Store: r.store}

	r.Mux.Handle("GET /v1/users/me",
		httpx.Chain(h,
			r.authn(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSessions() {
	h := &SessionsHandler{SessionService: r.SessionService}

	secured := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			r.authn(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/sessions", secured(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("DELETE /v1/sessions/{id}", secured(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems poll)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
