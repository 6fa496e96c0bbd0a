package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/medbill/amount-detection/dto"
	"github.com/medbill/amount-detection/utils"
)

// Classifier assigns a semantic type to every labeled amount. Implementations
// must return exactly one ClassifiedAmount per input and never drop an entry.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, text string, amounts []dto.LabeledAmount) ([]dto.ClassifiedAmount, error)
}

// RuleClassifier is the deterministic local fallback. It never fails, so the
// pipeline always has a classification path even with no API key configured.
type RuleClassifier struct{}

func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

func (r *RuleClassifier) Name() string { return "rule" }

func (r *RuleClassifier) Classify(_ context.Context, _ string, amounts []dto.LabeledAmount) ([]dto.ClassifiedAmount, error) {
	out := make([]dto.ClassifiedAmount, 0, len(amounts))
	for _, a := range amounts {
		c := dto.ClassifiedAmount{
			LabeledAmount:        a,
			Type:                 dto.TypeOther,
			Name:                 a.Label,
			ClassificationSource: dto.SourceDefault,
		}
		if a.Label != "" {
			if amtType, ok := utils.ClassifyByRules(a.Label); ok {
				c.Type = amtType
				c.ClassificationSource = dto.SourceRule
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// GeminiClassifier sends the whole candidate batch to Gemini and expects a
// parallel list of types back. Any transport or format problem is returned as
// an error so the caller can fall back to the rule path.
type GeminiClassifier struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

func NewGeminiClassifier(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*GeminiClassifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}

	return &GeminiClassifier{client: client, model: model, timeout: timeout}, nil
}

func (g *GeminiClassifier) Name() string { return "ai" }

func (g *GeminiClassifier) Close() error {
	return g.client.Close()
}

type geminiItem struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	Name  string `json:"name"`
}

type geminiResponse struct {
	Amounts []geminiItem `json:"amounts"`
}

func (g *GeminiClassifier) Classify(ctx context.Context, text string, amounts []dto.LabeledAmount) ([]dto.ClassifiedAmount, error) {
	if len(amounts) == 0 {
		return []dto.ClassifiedAmount{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := buildClassificationPrompt(text, amounts)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}

	parsed, err := parseGeminiJSON(sb.String())
	if err != nil {
		return nil, err
	}

	out := make([]dto.ClassifiedAmount, len(amounts))
	assigned := make([]bool, len(amounts))
	for i, a := range amounts {
		out[i] = dto.ClassifiedAmount{
			LabeledAmount:        a,
			Type:                 dto.TypeOther,
			Name:                 a.Label,
			ClassificationSource: dto.SourceAI,
		}
	}
	for _, item := range parsed.Amounts {
		if item.Index < 0 || item.Index >= len(amounts) {
			continue
		}
		t := dto.AmountType(item.Type)
		if !dto.IsValidAmountType(t) {
			t = dto.TypeOther
		}
		out[item.Index].Type = t
		if item.Name != "" {
			out[item.Index].Name = item.Name
		}
		assigned[item.Index] = true
	}
	for i := range assigned {
		if !assigned[i] {
			return nil, fmt.Errorf("gemini response missing candidate %d", i)
		}
	}

	return out, nil
}

// parseGeminiJSON tolerates markdown fences around the JSON body
func parseGeminiJSON(raw string) (*geminiResponse, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var parsed geminiResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("parsing gemini response: %w", err)
	}
	if len(parsed.Amounts) == 0 {
		return nil, fmt.Errorf("gemini response contains no amounts")
	}
	return &parsed, nil
}

func ptrFloat32(v float32) *float32 {
	return &v
}

var _ Classifier = (*GeminiClassifier)(nil)
var _ Classifier = (*RuleClassifier)(nil)
