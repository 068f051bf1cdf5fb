package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Count clamps per family. Requests above the cap are clamped silently, not
// rejected; generation cost grows with count and large quizzes time out.
const (
	MaxQuizQuestions    = 20
	MaxCodingQuestions  = 10
	MaxWritingQuestions = 5

	quizTimeout    = 60 * time.Second
	defaultTimeout = 30 * time.Second

	attemptsPerModel = 2
	baseRetryDelay   = 2 * time.Second
)

// ErrGenerationTimeout marks a run that hit its deadline; handlers map it to
// a gateway-timeout response suggesting fewer questions.
var ErrGenerationTimeout = errors.New("ai: generation timed out")

// Generator runs prompts through the configured model fallback chain.
type Generator struct {
	client Client
	models []string
	logger *slog.Logger
}

func NewGenerator(client Client, models []string, logger *slog.Logger) *Generator {
	return &Generator{client: client, models: models, logger: logger}
}

func ClampCount(count, max int) int {
	if count < 1 {
		return 1
	}
	if count > max {
		return max
	}
	return count
}

func (g *Generator) GenerateQuiz(ctx context.Context, topic, difficulty string, count int) ([]QuizQuestion, error) {
	clamped := ClampCount(count, MaxQuizQuestions)
	if clamped != count {
		g.logger.Warn("clamped quiz question count", "requested", count, "clamped", clamped)
	}

	raw, err := g.complete(ctx, QuizPrompt(topic, difficulty, clamped), quizTimeout)
	if err != nil {
		return nil, err
	}
	return ParseQuiz(raw)
}

func (g *Generator) GenerateCoding(ctx context.Context, topic, difficulty, language string, count int) ([]CodingQuestion, error) {
	clamped := ClampCount(count, MaxCodingQuestions)
	if clamped != count {
		g.logger.Warn("clamped coding question count", "requested", count, "clamped", clamped)
	}

	raw, err := g.complete(ctx, CodingPrompt(topic, difficulty, language, clamped), defaultTimeout)
	if err != nil {
		return nil, err
	}
	return ParseCoding(raw)
}

func (g *Generator) GenerateWriting(ctx context.Context, topic, difficulty, writingType string, count int) ([]WritingQuestion, error) {
	clamped := ClampCount(count, MaxWritingQuestions)
	if clamped != count {
		g.logger.Warn("clamped writing question count", "requested", count, "clamped", clamped)
	}

	raw, err := g.complete(ctx, WritingPrompt(topic, difficulty, writingType, clamped), defaultTimeout)
	if err != nil {
		return nil, err
	}
	return ParseWriting(raw)
}

// complete walks the model chain sequentially. Each model gets a capped
// number of attempts with an escalating delay between them; the first
// non-empty completion wins and the last underlying error surfaces when the
// whole chain fails.
func (g *Generator) complete(ctx context.Context, prompt string, timeout time.Duration) (string, error) {
	if len(g.models) == 0 {
		return "", errors.New("ai: no models configured")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	for _, model := range g.models {
		for attempt := 1; attempt <= attemptsPerModel; attempt++ {
			raw, err := g.client.Complete(ctx, model, prompt)
			if err == nil {
				return raw, nil
			}
			lastErr = err

			if ctx.Err() != nil {
				g.logger.Warn("generation deadline reached", "model", model, "error", err)
				return "", ErrGenerationTimeout
			}
			g.logger.Warn("model attempt failed",
				"model", model,
				"attempt", attempt,
				"error", err)

			if attempt < attemptsPerModel {
				select {
				case <-time.After(time.Duration(attempt) * baseRetryDelay):
				case <-ctx.Done():
					return "", ErrGenerationTimeout
				}
			}
		}
	}

	return "", fmt.Errorf("ai: all models failed: %w", lastErr)
}
