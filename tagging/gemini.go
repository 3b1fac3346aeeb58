package tagging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// Generator wraps the Google GenAI client to provide simple prompt-based
// interactions.
type Generator struct {
	client    *genai.Client
	modelName string
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Generator{client: client, modelName: model}, nil
}

// GenerateContent sends the prompt to Gemini and returns the concatenated
// textual response.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Gemini implements Provider on top of a content generator. Calls carry a
// bounded timeout so a slow provider can never block proposal creation.
type Gemini struct {
	generator contentGenerator
	timeout   time.Duration
	log       *zap.Logger
}

const defaultTimeout = 8 * time.Second

func NewGemini(generator contentGenerator, timeout time.Duration, log *zap.Logger) *Gemini {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gemini{generator: generator, timeout: timeout, log: log}
}

// ExtractTags issues one classification call and filters the result through
// the closed vocabulary. An empty narrative short-circuits to the empty set.
func (g *Gemini) ExtractTags(ctx context.Context, narrative string) ([]string, error) {
	narrative = strings.TrimSpace(narrative)
	if narrative == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.generator.GenerateContent(ctx, buildPrompt(narrative))
	if err != nil {
		return nil, fmt.Errorf("extract tags: %w", err)
	}

	g.log.Debug("tag extraction response", zap.Int("response_length", len(raw)))

	tags, err := parseTags(raw)
	if err != nil {
		return nil, err
	}

	return FilterVocabulary(tags), nil
}

func buildPrompt(narrative string) string {
	var b strings.Builder
	b.WriteString("You are an IEP specialist. Extract relevant tags from the student description below.\n")
	b.WriteString("Return only a JSON array of lowercase tags from this list: [\"")
	b.WriteString(strings.Join(Vocabulary, `", "`))
	b.WriteString("\"].\nIf no tags match, return an empty array.\n\nStudent description:\n")
	b.WriteString(narrative)
	return b.String()
}

func parseTags(raw string) ([]string, error) {
	cleaned := extractJSON(raw)

	var tags []string
	if err := json.Unmarshal([]byte(cleaned), &tags); err != nil {
		return nil, fmt.Errorf("parse tag response: %w", err)
	}
	return tags, nil
}

// extractJSON strips markdown code fences models like to wrap JSON in.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
