package chat

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamly-ai/roamly/app/observability/metrics"
	"github.com/roamly-ai/roamly/internal/types"
)

type stubChatService struct {
	reply      string
	sessionIDs []string
}

func (s *stubChatService) Answer(ctx context.Context, sessionID, message, name string) string {
	s.sessionIDs = append(s.sessionIDs, sessionID)
	return s.reply
}

func newTestHandler(reply string) (*Handler, *stubChatService) {
	metrics.InitAppMetrics()
	svc := &stubChatService{reply: reply}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(svc, logger), svc
}

func TestChatHandler_MintsSessionIDWhenAbsent(t *testing.T) {
	handler, svc := newTestHandler("hello")

	body := strings.NewReader(`{"message": "hi there"}`)
	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Chat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "hello", resp.Reply)
	require.Len(t, svc.sessionIDs, 1)
	assert.Equal(t, resp.SessionID, svc.sessionIDs[0])
}

func TestChatHandler_EchoesProvidedSessionID(t *testing.T) {
	handler, svc := newTestHandler("welcome back")

	body := strings.NewReader(`{"session_id": "abc-123", "message": "hi again"}`)
	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Chat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "abc-123", resp.SessionID)
	require.Len(t, svc.sessionIDs, 1)
	assert.Equal(t, "abc-123", svc.sessionIDs[0])
}

func TestChatHandler_RejectsEmptyMessage(t *testing.T) {
	handler, svc := newTestHandler("unused")

	body := strings.NewReader(`{"message": "   "}`)
	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Chat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "message is required")
	assert.Empty(t, svc.sessionIDs)
}

func TestChatHandler_RejectsMalformedJSON(t *testing.T) {
	handler, svc := newTestHandler("unused")

	body := strings.NewReader(`{"message": `)
	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Chat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.sessionIDs)
}
