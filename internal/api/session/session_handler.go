package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/roamly-ai/roamly/internal/api"
)

type Handler struct {
	logger *slog.Logger
	repo   Repository
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		repo:   repo,
	}
}

// DeleteSession handles DELETE /sessions/{sessionID} - explicit session reset.
// Deleting an already-absent session is a no-op.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SessionHandler").Start(r.Context(), "DeleteSession")
	defer span.End()

	l := h.logger.With(slog.String("handler", "DeleteSession"))

	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "sessionID is required")
		return
	}

	if err := h.repo.DeleteSessionData(ctx, sessionID); err != nil {
		l.ErrorContext(ctx, "Failed to delete session data", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Delete failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to delete session data")
		return
	}

	l.InfoContext(ctx, "Session data deleted", slog.String("session_id", sessionID))
	span.SetStatus(codes.Ok, "Session deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
