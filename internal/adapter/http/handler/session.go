package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/signme/signme-backend/internal/adapter/http/handler/dto"
	"github.com/signme/signme-backend/internal/domain/models"
	"github.com/signme/signme-backend/internal/domain/types"
	"github.com/signme/signme-backend/pkg/logger"
	wrap "github.com/signme/signme-backend/pkg/logger/wrapper"
	"github.com/signme/signme-backend/pkg/metrics"
	"github.com/signme/signme-backend/pkg/validator"
	ws "github.com/signme/signme-backend/pkg/wsHub"
)

type SessionService interface {
	Start(ctx context.Context, email, startLocation, destination, vehicleType string) (*models.Session, error)
	End(ctx context.Context, email string, sessionID types.SessionID) (string, error)
	Get(ctx context.Context, email string, sessionID types.SessionID) (*models.Session, error)
}

type Session struct {
	sessions    SessionService
	connections *ws.ConnectionHub
	upgrader    websocket.Upgrader
	l           logger.Logger
}

func NewSession(service SessionService, connections *ws.ConnectionHub, l logger.Logger) *Session {
	return &Session{
		sessions:    service,
		connections: connections,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		l: l,
	}
}

// Start godoc
// @Summary      Start a drive
// @Description  Creates a new timed drive between two locations
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.StartSessionRequest true "Drive data"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Router       /sessions [post]
func (h *Session) Start(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "start_session")

	acc := models.AccountFromContext(ctx)
	if acc == nil || acc.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	req := &dto.StartSessionRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateStartSession(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	drive, err := h.sessions.Start(ctx, acc.Email, req.StartLocation, req.Destination, req.VehicleType)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to start drive", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"session": drive}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// End godoc
// @Summary      End a drive
// @Description  Stamps the end time on an open drive
// @Tags         Sessions
// @Produce      json
// @Security     BearerAuth
// @Param        session_id path string true "Session ID (ddMMyyyy-HHmmss)"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /sessions/{session_id}/end [post]
func (h *Session) End(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "end_session")

	acc := models.AccountFromContext(ctx)
	if acc == nil || acc.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	sessionID, err := types.ParseSessionID(r.PathValue("session_id"))
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	endTime, err := h.sessions.End(ctx, acc.Email, sessionID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to end drive", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"session_id": sessionID,
		"end_time":   endTime,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// HandleWebSocket subscribes the caller to live updates of one of its own
// drives. The connection is dropped with a final "session_ended" frame when
// the drive ends.
func (h *Session) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "session_ws")

	acc := models.AccountFromContext(ctx)
	if acc == nil || acc.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	sessionID, err := types.ParseSessionID(r.PathValue("session_id"))
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	// Only the drive's owner may subscribe.
	if _, err := h.sessions.Get(ctx, acc.Email, sessionID); err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Error(ctx, "failed to upgrade connection", err)
		return
	}

	wsConn := ws.NewConn(ctx, sessionID.String(), conn)
	if err := h.connections.Add(wsConn); err != nil {
		h.l.Error(ctx, "failed to register connection", err)
		wsConn.Close()
		return
	}

	metrics.WebSocketConnectionsGauge.WithLabelValues("session").Inc()
	defer metrics.WebSocketConnectionsGauge.WithLabelValues("session").Dec()

	h.l.Info(ctx, "live subscription opened", "session_id", sessionID.String())

	wsConn.WaitClosed()
	h.connections.Delete(sessionID.String())
	h.l.Info(ctx, "live subscription closed", "session_id", sessionID.String())
}
