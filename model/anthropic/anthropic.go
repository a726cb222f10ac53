// Package anthropic provides a model wrapper for the Anthropic Claude API.
// Structured output is implemented as a single forced tool whose input schema
// is the requested response format, the standard pattern for Claude.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/hupe1980/procmesh/model"
)

// Options configures the Anthropic model adapter (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// NewModel creates a new Anthropic model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new Anthropic model from an existing client
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// Generate implements model.Model against the Anthropic Messages API.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	params := m.buildParams(req)

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, classifyError(err)
	}

	out := &model.Response{}

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			out.Text += block.AsText().Text
		case "tool_use":
			toolBlock := block.AsToolUse()
			if req.ResponseFormat == nil || toolBlock.Name != req.ResponseFormat.Name {
				continue
			}

			raw, err := json.Marshal(toolBlock.Input)
			if err != nil {
				return nil, model.NewError(model.ErrKindSchema, err, "anthropic tool input is not valid JSON")
			}

			out.Structured = raw
			if out.Text == "" {
				out.Text = string(raw)
			}
		}
	}

	if req.ResponseFormat != nil && len(out.Structured) == 0 {
		return nil, model.NewError(model.ErrKindSchema, nil, "anthropic response carries no structured payload")
	}

	return out, nil
}

func (m *Model) buildParams(req model.Request) anthropic.MessageNewParams {
	var messages []anthropic.MessageParam

	for _, msg := range req.Messages {
		switch msg.Role {
		case model.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Text)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Text)))
		}
	}

	temperature := m.opts.Temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}

	maxTokens := m.opts.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(temperature),
	}

	if req.Instructions != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.Instructions}}
	}

	if rf := req.ResponseFormat; rf != nil {
		params.Tools = []anthropic.ToolUnionParam{buildSchemaTool(rf)}
		params.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: rf.Name},
		}
	}

	return params
}

// buildSchemaTool converts a ResponseFormat into a forced tool definition.
func buildSchemaTool(rf *model.ResponseFormat) anthropic.ToolUnionParam {
	inputSchema := anthropic.ToolInputSchemaParam{
		Type: constant.Object("object"),
	}

	if properties, ok := rf.Schema["properties"]; ok {
		inputSchema.Properties = properties
	}

	if required, ok := rf.Schema["required"]; ok {
		switch req := required.(type) {
		case []string:
			inputSchema.Required = req
		case []any:
			for _, r := range req {
				if s, ok := r.(string); ok {
					inputSchema.Required = append(inputSchema.Required, s)
				}
			}
		}
	}

	return anthropic.ToolUnionParamOfTool(inputSchema, rf.Name)
}

func classifyError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return model.NewError(model.ErrKindAuth, err, "anthropic authentication failed")
		case http.StatusTooManyRequests:
			return model.NewError(model.ErrKindRateLimit, err, "anthropic rate limit exceeded")
		}
	}

	return model.NewError(model.ErrKindTransport, err, "anthropic api error")
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:               string(m.opts.Model),
		Provider:           "anthropic",
		SupportsStructured: true,
	}
}
