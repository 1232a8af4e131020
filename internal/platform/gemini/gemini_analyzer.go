package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/lingualabs/lingua-api/internal/analysis"
	"github.com/lingualabs/lingua-api/internal/config"
)

// GeminiAnalyzer implements the analysis.Analyzer interface using Google's
// Gemini API to score conversation transcripts.
type GeminiAnalyzer struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// promptTemplate is the parsed template for creating prompts
	promptTemplate *template.Template

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string
}

// promptData carries the fields the prompt template renders.
type promptData struct {
	Transcript string
	Context    string
	Language   string
	Duration   float64
}

// NewGeminiAnalyzer creates a new instance of GeminiAnalyzer with the provided dependencies.
//
// Parameters:
//   - ctx: Context for the operation, which can be used for cancellation
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing API key, model name, and retry settings
//
// Returns:
//   - A properly initialized GeminiAnalyzer or an error if initialization fails
func NewGeminiAnalyzer(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiAnalyzer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", analysis.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", analysis.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("assessment").Parse(assessmentPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			analysis.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			analysis.ErrInvalidConfig, err)
	}

	return &GeminiAnalyzer{
		logger:         logger,
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// Ensure GeminiAnalyzer implements analysis.Analyzer interface
var _ analysis.Analyzer = (*GeminiAnalyzer)(nil)

// Analyze implements analysis.Analyzer. It renders the assessment prompt,
// calls the Gemini API with retries, and parses the scored response.
func (g *GeminiAnalyzer) Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	if req.Transcript == "" {
		return nil, analysis.ErrEmptyTranscript
	}

	prompt, err := g.createPrompt(ctx, req)
	if err != nil {
		return nil, err
	}

	text, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result, err := parseAssessment(text)
	if err != nil {
		g.logger.WarnContext(ctx, "Failed to parse model assessment",
			"error", err,
			"response_length", len(text))
		return nil, err
	}

	return result, nil
}

// createPrompt renders the assessment prompt from the template.
func (g *GeminiAnalyzer) createPrompt(ctx context.Context, req analysis.Request) (string, error) {
	data := promptData{
		Transcript: req.Transcript,
		Context:    req.Context,
		Language:   req.Language,
		Duration:   req.DurationSeconds,
	}
	if data.Context == "" {
		data.Context = "General conversation"
	}
	if data.Language == "" {
		data.Language = "English"
	}

	var promptBuffer bytes.Buffer
	if err := g.promptTemplate.Execute(&promptBuffer, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	prompt := promptBuffer.String()
	g.logger.DebugContext(ctx, "Prompt generated successfully",
		"prompt_length", len(prompt))

	return prompt, nil
}

// callGeminiWithRetry makes a call to the Gemini API with exponential backoff retry logic.
//
// It attempts to call the API up to config.MaxRetries times, using exponential backoff
// with jitter between retries for transient errors. Permanent errors (like content being
// blocked by safety filters) are returned immediately without retrying.
func (g *GeminiAnalyzer) callGeminiWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	baseDelaySeconds := g.config.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "Invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}

	if baseDelaySeconds < 1 {
		g.logger.WarnContext(ctx, "Invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.InfoContext(ctx, "Making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		text, err, isTransient := g.callGemini(ctx, prompt)
		if err == nil {
			g.logger.InfoContext(ctx, "Gemini API call successful",
				"attempt", attemptNum)
			return text, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if errors.Is(err, analysis.ErrContentBlocked) || errors.Is(err, analysis.ErrInvalidResponse) {
			g.logger.WarnContext(ctx, "Permanent error occurred, not retrying",
				"error_type", err)
			return "", err
		}

		if attempt >= maxRetries {
			g.logger.WarnContext(ctx, "Maximum retry attempts reached",
				"max_retries", maxRetries)
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				analysis.ErrTransientFailure, maxRetries)
		}

		if !isTransient {
			g.logger.WarnContext(ctx, "Non-transient error occurred, not retrying")
			return "", err
		}

		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delaySeconds := backoffSeconds * jitterFactor
		delay := time.Duration(delaySeconds * float64(time.Second))

		g.logger.InfoContext(ctx, "Retrying after delay",
			"attempt", attemptNum,
			"delay_seconds", delaySeconds)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			g.logger.WarnContext(ctx, "API call cancelled during retry delay",
				"attempt", attemptNum,
				"ctx_err", ctx.Err())
			return "", fmt.Errorf("%w: %v", analysis.ErrTransientFailure, ctx.Err())
		}
	}
}

// callGemini performs a single API call. The third return value reports
// whether a failure is worth retrying.
func (g *GeminiAnalyzer) callGemini(ctx context.Context, prompt string) (string, error, bool) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.2),
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, genConfig)
	if err != nil {
		// API-level failures are assumed transient
		return "", fmt.Errorf("%w: %v", analysis.ErrTransientFailure, err), true
	}

	if resp == nil {
		return "", fmt.Errorf("%w: nil response", analysis.ErrInvalidResponse), false
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", analysis.ErrInvalidResponse), false
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", analysis.ErrContentBlocked), false
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty content in response", analysis.ErrInvalidResponse), false
	}

	return text, nil, false
}
