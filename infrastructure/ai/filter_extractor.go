// Package ai turns free-text exercise descriptions into structured
// catalog filters via Amazon Bedrock.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"exercisely-backend/domain/core/valueobjects"
	pkgerrors "exercisely-backend/pkg/errors"
)

const (
	// DefaultModelID is the default Bedrock model for filter extraction.
	DefaultModelID = "anthropic.claude-3-haiku-20240307-v1:0"
	// maxDescriptionInput is the maximum description chars sent to the model.
	maxDescriptionInput = 1000
	// anthropicVersion is the required API version for Claude on Bedrock.
	anthropicVersion = "bedrock-2023-05-31"

	maxResponseTokens = 512
)

// BedrockInvoker abstracts Bedrock model invocation for dependency inversion.
type BedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockFilterExtractor implements the FilterExtractor port via Amazon
// Bedrock Claude models.
type BedrockFilterExtractor struct {
	client  BedrockInvoker
	modelID string
	logger  *zap.Logger
}

// NewBedrockFilterExtractor creates a new BedrockFilterExtractor.
func NewBedrockFilterExtractor(client BedrockInvoker, modelID string, logger *zap.Logger) *BedrockFilterExtractor {
	if modelID == "" {
		modelID = DefaultModelID
	}
	return &BedrockFilterExtractor{
		client:  client,
		modelID: modelID,
		logger:  logger,
	}
}

// claudeRequest is the Claude Messages API request format for Bedrock.
type claudeRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Messages         []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the Claude Messages API response format.
type claudeResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

const promptTemplate = `Extract workout filter criteria from this description of what someone wants to train.

Respond with ONLY a JSON object. Use these keys, omitting any the description does not imply:
- "force": array from [%s]
- "level": array from [%s]
- "mechanic": array from [%s]
- "equipment": array from [%s]
- "muscle": array from [%s]
- "category": array from [%s]

No prose, no markdown fences, just the JSON object.

Description: %s`

// rawFilter tolerates the model answering a single string where an
// array was asked for.
type rawFilter struct {
	Force     stringList `json:"force"`
	Level     stringList `json:"level"`
	Mechanic  stringList `json:"mechanic"`
	Equipment stringList `json:"equipment"`
	Muscle    stringList `json:"muscle"`
	Category  stringList `json:"category"`
}

type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = []string{one}
		return nil
	}
	return fmt.Errorf("expected string or array of strings")
}

// ExtractFilter asks the model for structured criteria and keeps only
// values inside the known vocabularies.
func (e *BedrockFilterExtractor) ExtractFilter(ctx context.Context, description string) (valueobjects.ExerciseFilter, error) {
	if len(description) > maxDescriptionInput {
		description = description[:maxDescriptionInput]
	}

	prompt := fmt.Sprintf(promptTemplate,
		strings.Join(valueobjects.ValidForces, ", "),
		strings.Join(valueobjects.ValidLevels, ", "),
		strings.Join(valueobjects.ValidMechanics, ", "),
		strings.Join(valueobjects.ValidEquipment, ", "),
		strings.Join(valueobjects.ValidMuscles, ", "),
		strings.Join(valueobjects.ValidCategories, ", "),
		description,
	)

	reqBody, err := json.Marshal(claudeRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxResponseTokens,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return valueobjects.ExerciseFilter{}, fmt.Errorf("marshal request: %w", err)
	}

	modelID := e.modelID
	output, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId: &modelID,
		Body:    reqBody,
	})
	if err != nil {
		return valueobjects.ExerciseFilter{}, pkgerrors.NewExternalError("filter extraction failed", err)
	}

	var resp claudeResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return valueobjects.ExerciseFilter{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(resp.Content) == 0 {
		return valueobjects.ExerciseFilter{}, fmt.Errorf("model returned no content")
	}

	filter, err := ParseFilterJSON(resp.Content[0].Text)
	if err != nil {
		return valueobjects.ExerciseFilter{}, err
	}

	e.logger.Debug("extracted exercise filter",
		zap.String("modelID", e.modelID),
		zap.Bool("empty", filter.IsEmpty()),
	)
	return filter, nil
}

// ParseFilterJSON parses the model's answer, stripping markdown fences
// it sometimes adds despite instructions, and discarding values outside
// the vocabularies.
func ParseFilterJSON(text string) (valueobjects.ExerciseFilter, error) {
	text = strings.TrimSpace(text)
	if after, ok := strings.CutPrefix(text, "```json"); ok {
		text = after
	} else if after, ok := strings.CutPrefix(text, "```"); ok {
		text = after
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	text = strings.TrimSpace(text)

	var raw rawFilter
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return valueobjects.ExerciseFilter{}, fmt.Errorf("parse filter json: %w", err)
	}

	var filter valueobjects.ExerciseFilter
	assign := func(field valueobjects.FilterField, values []string) {
		kept := make([]string, 0, len(values))
		for _, v := range values {
			v = strings.ToLower(strings.TrimSpace(v))
			if valueobjects.InVocabulary(field, v) {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			filter.SetField(field, kept)
		}
	}
	assign(valueobjects.FieldForce, raw.Force)
	assign(valueobjects.FieldLevel, raw.Level)
	assign(valueobjects.FieldMechanic, raw.Mechanic)
	assign(valueobjects.FieldEquipment, raw.Equipment)
	assign(valueobjects.FieldMuscle, raw.Muscle)
	assign(valueobjects.FieldCategory, raw.Category)
	return filter, nil
}

// DisabledFilterExtractor stands in when AI search is turned off. Every
// extraction attempt fails with a validation error so callers surface a
// clear message instead of a timeout.
type DisabledFilterExtractor struct{}

// NewDisabledFilterExtractor creates the stand-in extractor.
func NewDisabledFilterExtractor() *DisabledFilterExtractor {
	return &DisabledFilterExtractor{}
}

// ExtractFilter always rejects the request.
func (e *DisabledFilterExtractor) ExtractFilter(ctx context.Context, description string) (valueobjects.ExerciseFilter, error) {
	return valueobjects.ExerciseFilter{}, pkgerrors.NewValidationError("natural-language search is not enabled")
}
