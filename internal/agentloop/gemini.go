package agentloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Config holds the settings for the Gemini-backed runner.
type Config struct {
	APIKey          string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	MaxSteps        int
	StepTimeout     time.Duration
	Budget          time.Duration
}

type geminiRunner struct {
	client *genai.Client
	config Config
	logger *slog.Logger
}

// NewGemini creates a Runner backed by a Gemini model with server-side
// Google Search grounding enabled on every step.
func NewGemini(cfg Config, logger *slog.Logger) (Runner, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("agent API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &geminiRunner{
		client: client,
		config: cfg,
		logger: logger.With("system", "agentloop"),
	}, nil
}

func (r *geminiRunner) Run(ctx context.Context, req Request) (*Result, error) {
	maxSteps := req.MaxSteps
	if maxSteps <= 0 {
		maxSteps = r.config.MaxSteps
	}
	stepTimeout := req.StepTimeout
	if stepTimeout <= 0 {
		stepTimeout = r.config.StepTimeout
	}
	budget := req.Budget
	if budget <= 0 {
		budget = r.config.Budget
	}

	if budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	accept := req.Accept
	if accept == nil {
		accept = func(text string) error {
			if strings.TrimSpace(text) == "" {
				return errors.New("empty answer")
			}
			return nil
		}
	}

	config := r.buildConfig(req.System)
	contents := []*genai.Content{userContent(req.Prompt)}

	var (
		sources  []Source
		seen     = map[string]bool{}
		lastText string
	)

	for step := 1; step <= maxSteps; step++ {
		resp, err := r.generate(ctx, contents, config, stepTimeout)
		if err != nil {
			if exhausted(ctx, err) {
				r.logger.Warn("agent loop budget exhausted", "steps", step)
				return &Result{
					Text:    lastText,
					Steps:   step,
					Outcome: OutcomePartial,
					Sources: sources,
				}, nil
			}
			return nil, fmt.Errorf("agent step %d: %w", step, err)
		}

		sources = collectSources(resp, sources, seen)
		lastText = responseText(resp)

		acceptErr := accept(lastText)
		if acceptErr == nil {
			r.logger.Debug("agent loop complete", "steps", step, "sources", len(sources))
			return &Result{
				Text:    lastText,
				Steps:   step,
				Outcome: OutcomeComplete,
				Sources: sources,
			}, nil
		}

		r.logger.Debug("agent answer rejected", "step", step, "reason", acceptErr)
		contents = append(contents, modelContent(lastText), userContent(nudge(acceptErr)))
	}

	r.logger.Warn("agent loop step budget exhausted", "steps", maxSteps)
	return &Result{
		Text:    lastText,
		Steps:   maxSteps,
		Outcome: OutcomePartial,
		Sources: sources,
	}, nil
}

// generate performs one model call with a per-step timeout and a single
// retry on transient failure.
func (r *geminiRunner) generate(
	ctx context.Context,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
	stepTimeout time.Duration,
) (*genai.GenerateContentResponse, error) {
	call := func() (*genai.GenerateContentResponse, error) {
		stepCtx := ctx
		if stepTimeout > 0 {
			var cancel context.CancelFunc
			stepCtx, cancel = context.WithTimeout(ctx, stepTimeout)
			defer cancel()
		}
		return r.client.Models.GenerateContent(stepCtx, r.config.Model, contents, config)
	}

	resp, err := call()
	if err == nil || ctx.Err() != nil {
		return resp, err
	}

	r.logger.Warn("model call failed, retrying", "error", err)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(500 * time.Millisecond):
	}

	return call()
}

func (r *geminiRunner) buildConfig(system string) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	if system != "" {
		config.SystemInstruction = &genai.Content{
			Role:  "user",
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if r.config.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(r.config.Temperature))
	}
	if r.config.MaxOutputTokens > 0 {
		config.MaxOutputTokens = int32(r.config.MaxOutputTokens)
	}

	return config
}

// exhausted reports whether a step failure means the overall budget ran
// out rather than the model call itself failing.
func exhausted(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded)
}

func userContent(text string) *genai.Content {
	return &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: text}},
	}
}

func modelContent(text string) *genai.Content {
	return &genai.Content{
		Role:  "model",
		Parts: []*genai.Part{{Text: text}},
	}
}

func nudge(acceptErr error) string {
	return fmt.Sprintf(
		"Your previous answer was not accepted: %s. Continue researching if needed and reply again following the required format exactly.",
		acceptErr,
	)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func collectSources(resp *genai.GenerateContentResponse, sources []Source, seen map[string]bool) []Source {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return sources
	}

	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		sources = append(sources, Source{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}

	return sources
}
