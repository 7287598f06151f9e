package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/roamly-ai/roamly/app/observability/metrics"
	"github.com/roamly-ai/roamly/internal/api/directions"
	"github.com/roamly-ai/roamly/internal/api/guardrail"
	"github.com/roamly-ai/roamly/internal/api/knowledge"
	"github.com/roamly-ai/roamly/internal/api/llm"
	"github.com/roamly-ai/roamly/internal/api/session"
	"github.com/roamly-ai/roamly/internal/api/weather"
	"github.com/roamly-ai/roamly/internal/types"
)

const fallbackReply = "I'm having trouble reaching my travel data right now. " +
	"Please try again in a moment — I can help with itineraries, routes, and live weather."

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service answers a chat message for one session: guardrail gate, persistent
// memory, live tool data, then the chat-completion call.
type Service interface {
	Answer(ctx context.Context, sessionID, message, name string) string
}

type ServiceImpl struct {
	logger     *slog.Logger
	store      session.Repository
	llmClient  llm.Client
	weather    weather.Service
	directions directions.Service
	retriever  knowledge.Retriever
	topK       int
}

func NewService(store session.Repository, llmClient llm.Client, weatherSvc weather.Service,
	directionsSvc directions.Service, retriever knowledge.Retriever, topK int, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		store:      store,
		llmClient:  llmClient,
		weather:    weatherSvc,
		directions: directionsSvc,
		retriever:  retriever,
		topK:       topK,
	}
}

// Answer runs the full turn. Blocked messages get the canned guardrail reply
// and are not recorded. Store and model failures degrade to generic replies;
// they never surface as request errors.
func (s *ServiceImpl) Answer(ctx context.Context, sessionID, message, name string) string {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "Answer")
	defer span.End()
	span.SetAttributes(attribute.String("chat.session_id", sessionID))

	l := s.logger.With(slog.String("method", "Answer"), slog.String("session_id", sessionID))

	if guardrail.Violates(message) {
		l.InfoContext(ctx, "Message blocked by guardrail")
		metrics.Get().GuardrailBlocksTotal.Add(ctx, 1)
		span.SetStatus(codes.Ok, "Blocked by guardrail")
		return guardrail.Response()
	}

	if name != "" {
		if err := s.store.UpdatePrefs(ctx, sessionID, map[string]any{"name": name}); err != nil {
			l.WarnContext(ctx, "Failed to persist name preference", slog.Any("error", err))
		}
	}

	history, err := s.store.GetHistory(ctx, sessionID)
	if err != nil {
		l.WarnContext(ctx, "Failed to load chat history", slog.Any("error", err))
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
	}
	prefs, err := s.store.GetPrefs(ctx, sessionID)
	if err != nil {
		l.WarnContext(ctx, "Failed to load preferences", slog.Any("error", err))
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
	}

	toolResults := s.runTools(ctx, message)

	var reply string
	if toolResults != "" {
		reply, err = s.llmClient.Chat(ctx, buildGroundingPrompt(message, toolResults), systemPrompt, history)
	} else {
		reply, err = s.llmClient.Chat(ctx, message+buildContextBlock(prefs), systemPrompt, history)
	}
	if err != nil {
		l.ErrorContext(ctx, "Chat completion failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Completion failed")
		reply = fallbackReply
	}

	if err := s.store.AddTurn(ctx, sessionID, "User: "+message); err != nil {
		l.WarnContext(ctx, "Failed to record user turn", slog.Any("error", err))
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
	}
	if err := s.store.AddTurn(ctx, sessionID, "Assistant: "+reply); err != nil {
		l.WarnContext(ctx, "Failed to record assistant turn", slog.Any("error", err))
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
	}

	span.SetStatus(codes.Ok, "Answer produced")
	return reply
}

// runTools performs the lightweight intent detection that stands in for the
// original tool-calling agent: live weather, route plans, and knowledge-base
// passages are gathered before the model is invoked.
func (s *ServiceImpl) runTools(ctx context.Context, message string) string {
	var results []string

	if city, ok := weatherIntent(message); ok {
		results = append(results, s.weather.LiveWeather(ctx, city))
	}

	if origin, destination, ok := routeIntent(message); ok {
		plans := s.directions.PlanRoutes(ctx, origin, destination)
		results = append(results, formatRoutePlans(origin, destination, plans))
	}

	if passages := s.retriever.RetrieveContext(ctx, message, s.topK); passages != "" {
		results = append(results, "Travel knowledge base:\n"+passages)
	}

	return strings.Join(results, "\n\n")
}

// weatherIntent detects weather questions and pulls the city out of the
// trailing "in <city>" clause.
func weatherIntent(message string) (string, bool) {
	lower := strings.ToLower(message)
	if !strings.Contains(lower, "weather") && !strings.Contains(lower, "temperature") &&
		!strings.Contains(lower, "forecast") {
		return "", false
	}

	idx := strings.LastIndex(lower, " in ")
	if idx < 0 {
		return "", false
	}
	city := strings.Trim(strings.TrimSpace(message[idx+4:]), ".,!?")
	if city == "" {
		return "", false
	}
	return city, true
}

// routeIntent detects "from <origin> to <destination>" route questions.
func routeIntent(message string) (string, string, bool) {
	lower := strings.ToLower(message)
	if !strings.Contains(lower, "route") && !strings.Contains(lower, "how to get") &&
		!strings.Contains(lower, "how do i get") && !strings.Contains(lower, "travel from") {
		return "", "", false
	}

	fromIdx := strings.Index(lower, "from ")
	if fromIdx < 0 {
		return "", "", false
	}
	rest := message[fromIdx+5:]
	toIdx := strings.Index(strings.ToLower(rest), " to ")
	if toIdx < 0 {
		return "", "", false
	}

	origin := strings.Trim(strings.TrimSpace(rest[:toIdx]), ".,!?")
	destination := strings.Trim(strings.TrimSpace(rest[toIdx+4:]), ".,!?")
	if origin == "" || destination == "" {
		return "", "", false
	}
	return origin, destination, true
}

func formatRoutePlans(origin, destination string, result *types.RoutesResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Routes from %s to %s:\n", origin, destination)
	writePlan(&b, "Recommended", result.Recommended)
	writePlan(&b, "Fastest", result.Fastest)
	writePlan(&b, "Cheapest", result.Cheapest)
	return strings.TrimRight(b.String(), "\n")
}

func writePlan(b *strings.Builder, label string, plan types.RoutePlan) {
	legs := make([]string, len(plan.Segments))
	for i, seg := range plan.Segments {
		legs[i] = fmt.Sprintf("%s %.1f km", seg.Mode, seg.DistanceKm)
	}
	fmt.Fprintf(b, "- %s: %.1f km, %d min (%s)\n",
		label, plan.TotalDistanceKm, plan.TotalTimeMin, strings.Join(legs, " + "))
}
