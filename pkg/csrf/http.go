package csrf

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/fieldhub/handler"
	"github.com/dmitrymomot/fieldhub/pkg/cookie"
	"github.com/dmitrymomot/fieldhub/pkg/logger"
	"github.com/dmitrymomot/fieldhub/svc/auth"
)

// HeaderName carries the token on mutating requests.
const HeaderName = "X-CSRF-Token"

// SessionReader reads verified sessions from a request. auth.Verifier
// implements it.
type SessionReader interface {
	UserSession(r *http.Request) (*auth.Session, error)
	AdminSession(r *http.Request) (*auth.Session, error)
}

// TokenBody is the issuance response.
type TokenBody struct {
	Token string `json:"token"`
}

// Handler serves the issuance endpoints and the verification middleware.
type Handler struct {
	issuer        *Issuer
	store         Store
	sessions      SessionReader
	cookies       *cookie.Manager
	bindingCookie string
	bindingMaxAge time.Duration
	log           *slog.Logger
	observer      Observer
}

type HandlerOption func(*Handler)

func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

func WithHandlerObserver(o Observer) HandlerOption {
	return func(h *Handler) {
		if o != nil {
			h.observer = o
		}
	}
}

// WithBindingCookie sets the name and lifetime of the anonymous binding cookie.
func WithBindingCookie(name string, maxAge time.Duration) HandlerOption {
	return func(h *Handler) {
		if name != "" {
			h.bindingCookie = name
		}
		if maxAge > 0 {
			h.bindingMaxAge = maxAge
		}
	}
}

// NewHandler wires issuance and verification to store. Tokens are minted by
// minter; pass nil to use a StoreMinter over store with default settings.
func NewHandler(store Store, minter Minter, sessions SessionReader, cookies *cookie.Manager, opts ...HandlerOption) *Handler {
	if minter == nil {
		minter = NewStoreMinter(store)
	}
	h := &Handler{
		store:         store,
		sessions:      sessions,
		cookies:       cookies,
		bindingCookie: "csrf_binding",
		bindingMaxAge: DefaultTTL,
		log:           logger.Noop(),
		observer:      noopObserver{},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.issuer = NewIssuer(minter, h.observer)
	return h
}

// Public issues a token to end users and anonymous clients. With a valid user
// session the token is bound to it; otherwise it is bound to a random client
// id kept in the signed binding cookie, created on first use and refreshed on
// every anonymous issuance.
func (h *Handler) Public() http.HandlerFunc {
	return handler.Wrap(h.public, h.wrapOptions()...)
}

// Admin issues a token to super-admins only. Any other caller gets 401.
func (h *Handler) Admin() http.HandlerFunc {
	return handler.Wrap(h.admin, h.wrapOptions()...)
}

func (h *Handler) wrapOptions() []handler.WrapOption[handler.Context, handler.NoRequest] {
	return []handler.WrapOption[handler.Context, handler.NoRequest]{
		handler.WithDecorators(handler.NoStore[handler.Context, handler.NoRequest]()),
		handler.WithErrorHandler[handler.Context, handler.NoRequest](handler.JSONErrorHandler[handler.Context](h.log)),
	}
}

func (h *Handler) public(ctx handler.Context, _ handler.NoRequest) handler.Response {
	r := ctx.Request()

	if sess := h.requestSessions(r).User; sess != nil {
		return h.respond(ctx, sess.Binding(), func() (Token, error) { return h.issuer.Issue(ctx, sess) })
	}

	clientID := h.clientID(ctx.ResponseWriter(), r)
	return h.respond(ctx, AnonymousBinding(clientID), func() (Token, error) { return h.issuer.IssueAnonymous(ctx, clientID) })
}

func (h *Handler) admin(ctx handler.Context, _ handler.NoRequest) handler.Response {
	sess := h.requestSessions(ctx.Request()).Admin

	tok, err := h.issuer.Issue(ctx, sess)
	if errors.Is(err, ErrUnauthenticated) {
		return handler.Error(http.StatusUnauthorized, MessageUnauthenticated)
	}
	if err != nil {
		return h.issuanceFailed(ctx, sess.Binding(), err)
	}
	return handler.JSON(http.StatusOK, TokenBody{Token: tok.Value})
}

func (h *Handler) respond(ctx handler.Context, binding string, issue func() (Token, error)) handler.Response {
	tok, err := issue()
	if err != nil {
		return h.issuanceFailed(ctx, binding, err)
	}
	return handler.JSON(http.StatusOK, TokenBody{Token: tok.Value})
}

func (h *Handler) issuanceFailed(ctx handler.Context, binding string, err error) handler.Response {
	h.log.ErrorContext(ctx, "csrf token issuance failed",
		logger.Component("csrf"),
		logger.Binding(binding),
		logger.Error(err),
	)
	return handler.Error(http.StatusInternalServerError, MessageIssuanceFailed)
}

// clientID returns the anonymous id from the binding cookie, or a new one when
// the cookie is missing or fails verification. The cookie is written on every
// issuance so it outlives the token it binds.
func (h *Handler) clientID(w http.ResponseWriter, r *http.Request) string {
	id, err := h.cookies.GetSigned(r, h.bindingCookie)
	if err != nil || id == "" {
		id = uuid.NewString()
	}
	h.cookies.SetSigned(w, h.bindingCookie, id, cookie.WithMaxAge(int(h.bindingMaxAge.Seconds())))
	return id
}

// requestSessions prefers the sessions auth.Middleware already verified and
// only parses the cookies itself when the middleware is not mounted.
func (h *Handler) requestSessions(r *http.Request) auth.Sessions {
	if ss, ok := auth.SessionsFromContext(r.Context()); ok {
		return ss
	}
	var ss auth.Sessions
	if s, err := h.sessions.UserSession(r); err == nil {
		ss.User = s
	}
	if s, err := h.sessions.AdminSession(r); err == nil {
		ss.Admin = s
	}
	return ss
}

// Verify rejects mutating requests whose X-CSRF-Token header does not match
// a live token bound to the caller. GET, HEAD, OPTIONS and TRACE pass.
func (h *Handler) Verify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		err := h.verify(r)
		switch {
		case err == nil:
			next.ServeHTTP(w, r)
		case errors.Is(err, ErrTokenMissing), errors.Is(err, ErrTokenMismatch):
			h.observer.ObserveTokenRejected(rejectReason(err))
			h.log.WarnContext(r.Context(), "csrf token rejected", logger.Component("csrf"), logger.Error(err))
			_ = handler.Error(http.StatusForbidden, MessageInvalidToken).Render(w, r)
		default:
			h.log.ErrorContext(r.Context(), "csrf token verification failed", logger.Component("csrf"), logger.Error(err))
			_ = handler.Error(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).Render(w, r)
		}
	})
}

func (h *Handler) verify(r *http.Request) error {
	presented := r.Header.Get(HeaderName)
	if presented == "" {
		return ErrTokenMissing
	}

	for _, binding := range h.bindings(r) {
		tok, err := h.store.Get(r.Context(), binding)
		if errors.Is(err, ErrTokenNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if tok.Matches(presented) {
			return nil
		}
	}
	return ErrTokenMismatch
}

// bindings lists every identity the request can prove, strongest first.
func (h *Handler) bindings(r *http.Request) []string {
	out := make([]string, 0, 3)
	ss := h.requestSessions(r)
	if ss.Admin != nil {
		out = append(out, ss.Admin.Binding())
	}
	if ss.User != nil {
		out = append(out, ss.User.Binding())
	}
	if id, err := h.cookies.GetSigned(r, h.bindingCookie); err == nil && id != "" {
		out = append(out, AnonymousBinding(id))
	}
	return out
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func rejectReason(err error) string {
	if errors.Is(err, ErrTokenMissing) {
		return "missing"
	}
	return "mismatch"
}
