package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w (set GOOGLE_API_KEY)", ErrMissingAPIKey)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: c, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, directive, body string) (string, error) {
	if g.client == nil {
		return "", errors.New("gemini not configured")
	}
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(body, genai.RoleUser),
	}, geminiConfig(directive))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	out := stripCodeFences(res.Text())
	if out == "" {
		return "", errors.New("gemini returned no text")
	}
	return out, nil
}

func geminiConfig(directive string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](Temperature),
		TopP:            genai.Ptr[float32](TopP),
		MaxOutputTokens: MaxOutputTokens,
	}
	if strings.TrimSpace(directive) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(directive, genai.RoleUser)
	}
	// Some Gemini models reject penalties outright, so zero means unset.
	if FrequencyPenalty != 0 {
		cfg.FrequencyPenalty = genai.Ptr[float32](FrequencyPenalty)
	}
	if PresencePenalty != 0 {
		cfg.PresencePenalty = genai.Ptr[float32](PresencePenalty)
	}
	return cfg
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if firstNewline := strings.Index(s, "\n"); firstNewline != -1 {
			s = s[firstNewline+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}

	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
	}

	return strings.TrimSpace(s)
}
