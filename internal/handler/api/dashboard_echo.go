package api

import (
	"errors"
	"net/http"

	"Edelweiss/internal/domain/models"
	dservice "Edelweiss/internal/domain/service"
	"Edelweiss/internal/service/auth"
	"Edelweiss/internal/service/predictor"
	"Edelweiss/internal/service/ratelimit"
	"Edelweiss/internal/usecase"
	xhttp "Edelweiss/pkg/http"
	applogger "Edelweiss/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	sessionHeader = "X-Session-ID"
	sessionCookie = "edelweiss_session"
)

// DashboardHandler exposes the dashboard gateway API. Each client is keyed
// by a session ID carried in a header or cookie; unknown IDs start a fresh
// session with default selection.
type DashboardHandler struct {
	logger   *applogger.Logger
	sessions *usecase.Manager
	auth     dservice.Authenticator
	stream   *StreamHandler
	rl       *ratelimit.Limiter
	symbols  map[string]bool
}

// NewDashboardHandler creates the gateway API handler.
func NewDashboardHandler(
	logger *applogger.Logger,
	sessions *usecase.Manager,
	authn dservice.Authenticator,
	symbols []string,
) *DashboardHandler {
	set := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		set[s] = true
	}
	return &DashboardHandler{
		logger:   logger,
		sessions: sessions,
		auth:     authn,
		stream:   NewStreamHandler(logger, sessions),
		rl:       ratelimit.New(),
		symbols:  set,
	}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.POST("/predict", h.Predict)
	g.POST("/chat", h.Chat)
	g.GET("/state", h.State)
	g.GET("/session", h.Session)
	g.PUT("/selection", h.Selection)
	g.GET("/stream", h.Stream)
	g.POST("/auth/login", h.Login)
	g.POST("/auth/provider", h.Provider)
	g.POST("/auth/logout", h.Logout)
}

func (h *DashboardHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Predict starts a prediction for the requested symbol and answers with
// the loading snapshot. The result arrives on the state stream or via a
// later GET /api/state.
func (h *DashboardHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if len(h.symbols) > 0 && !h.symbols[req.Symbol] {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("unknown symbol %q", req.Symbol))
	}
	if !h.rl.Allow(c.RealIP()+":predict", 5, 2) {
		h.logger.Warn("predict rate limited", applogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many prediction requests"))
	}

	sess := h.session(c)
	sess.SetSelection(c.Request().Context(), req.Symbol, "", nil)
	if err := sess.Controller().Predict(c.Request().Context(), req.Symbol); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	return xhttp.SuccessResponse(c, sess.Controller().State())
}

// State returns the session's current request/view state.
func (h *DashboardHandler) State(c echo.Context) error {
	sess := h.session(c)
	return xhttp.SuccessResponse(c, sess.Controller().State())
}

// Session returns the session ID, its selection, and the symbol universe.
func (h *DashboardHandler) Session(c echo.Context) error {
	sess := h.session(c)
	symbols := make([]string, 0, len(h.symbols))
	for s := range h.symbols {
		symbols = append(symbols, s)
	}
	horizons := make([]map[string]string, 0, 4)
	for _, hz := range []models.Horizon{models.Horizon1M, models.Horizon3M, models.Horizon6M, models.Horizon1Y} {
		horizons = append(horizons, map[string]string{"value": string(hz), "label": hz.Label()})
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"id":        sess.ID,
		"selection": sess.Selection(),
		"symbols":   symbols,
		"horizons":  horizons,
	})
}

// Selection updates symbol, horizon, and the chat-panel flag. A symbol
// change re-dispatches a prediction for the new symbol.
func (h *DashboardHandler) Selection(c echo.Context) error {
	req := &models.SelectionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sess := h.session(c)
	sel, changed := sess.SetSelection(c.Request().Context(), req.Symbol, req.Horizon, req.ChatOpen)
	if changed {
		if err := sess.Controller().Predict(c.Request().Context(), sel.Symbol); err != nil {
			h.logger.Warn("selection predict failed", applogger.Error(err))
		}
	}
	return xhttp.SuccessResponse(c, sel)
}

// Chat proxies a chat message to the prediction service.
func (h *DashboardHandler) Chat(c echo.Context) error {
	req := &models.ChatRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":chat", 3, 1) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many chat requests"))
	}

	sess := h.session(c)
	reply, err := sess.Chat(c.Request().Context(), req.Message, req.Context)
	if err != nil {
		h.logger.Warn("chat failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayError(userMessage(err)))
	}
	return xhttp.SuccessResponse(c, reply)
}

// Stream upgrades to a WebSocket pushing state transitions.
func (h *DashboardHandler) Stream(c echo.Context) error {
	return h.stream.Serve(c, h.sessionID(c))
}

// Login signs in with email/password credentials.
func (h *DashboardHandler) Login(c echo.Context) error {
	req := &models.CredentialsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	identity, err := h.auth.SignInWithCredentials(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return xhttp.UnauthorizedResponse(c, "invalid credentials")
	}
	return xhttp.SuccessResponse(c, identity)
}

// Provider signs in through a configured federated provider.
func (h *DashboardHandler) Provider(c echo.Context) error {
	req := &models.ProviderRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	identity, err := h.auth.SignInWithProvider(c.Request().Context(), req.Provider)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownProvider) {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("provider %q not enabled", req.Provider))
		}
		return xhttp.UnauthorizedResponse(c, "sign-in failed")
	}
	return xhttp.SuccessResponse(c, identity)
}

// Logout clears the current identity.
func (h *DashboardHandler) Logout(c echo.Context) error {
	if err := h.auth.SignOut(c.Request().Context()); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.InternalError("sign-out failed"))
	}
	return xhttp.NoContentResponse(c)
}

// sessionID resolves the client's session ID from header or cookie,
// minting one when absent. The ID is echoed back on both channels.
func (h *DashboardHandler) sessionID(c echo.Context) string {
	id := c.Request().Header.Get(sessionHeader)
	if id == "" {
		if cookie, err := c.Cookie(sessionCookie); err == nil {
			id = cookie.Value
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	c.Response().Header().Set(sessionHeader, id)
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *DashboardHandler) session(c echo.Context) *usecase.Session {
	return h.sessions.Acquire(c.Request().Context(), h.sessionID(c))
}

func userMessage(err error) string {
	var te *predictor.TransportError
	if errors.As(err, &te) {
		return te.Message
	}
	return "Chat request failed"
}
