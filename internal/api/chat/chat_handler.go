package chat

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/roamly-ai/roamly/app/observability/metrics"
	"github.com/roamly-ai/roamly/internal/api"
	"github.com/roamly-ai/roamly/internal/types"
)

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// Chat handles POST /chat. When the caller supplies no session_id, a fresh
// token is minted and echoed back so the frontend can keep the conversation.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ChatHandler").Start(r.Context(), "Chat")
	defer span.End()

	l := h.logger.With(slog.String("handler", "Chat"))

	var req types.ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "message is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	metrics.Get().ChatRequestsTotal.Add(ctx, 1)
	reply := h.service.Answer(ctx, sessionID, message, strings.TrimSpace(req.Name))

	span.SetStatus(codes.Ok, "Reply returned")
	api.WriteJSONResponse(w, r, http.StatusOK, types.ChatResponse{
		SessionID: sessionID,
		Reply:     reply,
	})
}
