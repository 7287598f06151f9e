package itinerary

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/roamly-ai/roamly/internal/api/knowledge"
	"github.com/roamly-ai/roamly/internal/api/llm"
	"github.com/roamly-ai/roamly/internal/types"
)

const fallbackItinerary = "## Itinerary Unavailable\n\n" +
	"I couldn't generate a full itinerary right now. Please try again in a moment — " +
	"in the meantime, you can ask me about routes, live weather, or destination tips."

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service turns an itinerary request into markdown whose budget table is
// guaranteed to balance against the requested budget.
type Service interface {
	GenerateItinerary(ctx context.Context, req types.ItineraryRequest) string
}

type ServiceImpl struct {
	logger    *slog.Logger
	llmClient llm.Client
	retriever knowledge.Retriever
	topK      int
}

func NewService(llmClient llm.Client, retriever knowledge.Retriever, topK int, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		llmClient: llmClient,
		retriever: retriever,
		topK:      topK,
	}
}

// GenerateItinerary builds the prompt (including retrieved destination
// knowledge), calls the model, then verifies the budget table: on a mismatch
// it re-prompts once with a correction instruction, and as a last resort
// rescales the table locally. Model failures degrade to a generic fallback
// text rather than an error.
func (s *ServiceImpl) GenerateItinerary(ctx context.Context, req types.ItineraryRequest) string {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateItinerary")
	defer span.End()
	span.SetAttributes(
		attribute.String("itinerary.destination", req.Destination),
		attribute.Int("itinerary.days", req.Days),
		attribute.Float64("itinerary.budget", req.Budget),
	)

	l := s.logger.With(slog.String("method", "GenerateItinerary"),
		slog.String("destination", req.Destination))

	ragQuery := req.Destination + " " + strings.Join(req.Interests, " ")
	ragContext := s.retriever.RetrieveContext(ctx, ragQuery, s.topK)

	prompt := buildItineraryPrompt(req.Destination, req.Days, req.Budget,
		req.Interests, req.FoodPreferences, ragContext)

	text, err := s.llmClient.Chat(ctx, prompt, systemPrompt, nil)
	if err != nil {
		l.ErrorContext(ctx, "Itinerary generation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		return fallbackItinerary
	}

	text = s.enforceBudget(ctx, l, text, req.Budget)
	span.SetStatus(codes.Ok, "Itinerary generated")
	return text
}

// enforceBudget is the post-generation verification pass. The model is asked
// to make the table balance, but free-text compliance is not trusted.
func (s *ServiceImpl) enforceBudget(ctx context.Context, l *slog.Logger, text string, budget float64) string {
	table, ok := parseBudgetTable(text)
	if !ok {
		l.WarnContext(ctx, "Itinerary has no parseable budget table, returning as-is")
		return text
	}
	if table.balanced(budget) {
		return text
	}

	l.InfoContext(ctx, "Budget table unbalanced, re-prompting",
		slog.Float64("budget", budget), slog.Float64("actual_sum", table.sum()))

	corrected, err := s.llmClient.Chat(ctx, buildBudgetCorrectionPrompt(text, budget, table.sum()), systemPrompt, nil)
	if err == nil {
		if correctedTable, ok := parseBudgetTable(corrected); ok {
			if correctedTable.balanced(budget) {
				return corrected
			}
			text, table = corrected, correctedTable
		}
	} else {
		l.WarnContext(ctx, "Budget correction re-prompt failed", slog.Any("error", err))
	}

	l.InfoContext(ctx, "Rescaling budget table locally")
	return rescaleBudgetTable(text, table, budget)
}
