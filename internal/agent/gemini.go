package agent

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"

	"github.com/jonathan/career-advisor/internal/llm"
	"github.com/jonathan/career-advisor/internal/prompts"
	"github.com/jonathan/career-advisor/internal/tools"
)

// GeminiBackend implements Backend over Gemini function calling. The chat
// session carries the conversation history across turns; the loop only
// supplies per-round inputs.
type GeminiBackend struct {
	model *genai.GenerativeModel
	chat  *genai.ChatSession

	// sessionContext is re-evaluated at each turn start so the system
	// instructions reflect the current session state.
	sessionContext func() string
}

// NewGeminiBackend wires a chat session with the tool catalog declared as
// Gemini functions.
func NewGeminiBackend(client *llm.GeminiClient, registry *tools.Registry, sessionContext func() string) *GeminiBackend {
	model := client.Raw().GenerativeModel(client.ModelName(llm.TierAdvanced))
	model.SetTemperature(0.3)
	model.Tools = []*genai.Tool{{FunctionDeclarations: declarations(registry)}}

	b := &GeminiBackend{
		model:          model,
		sessionContext: sessionContext,
	}
	b.setSystemInstruction()
	b.chat = model.StartChat()
	return b
}

func (b *GeminiBackend) setSystemInstruction() {
	contextStr := "(none)"
	if b.sessionContext != nil {
		if s := b.sessionContext(); s != "" {
			contextStr = s
		}
	}
	system := prompts.Format(prompts.MustGet("agent.json", "system"), map[string]string{
		"SessionContext": contextStr,
	})
	b.model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
}

// Decide sends one round to the chat session and classifies the response
// as tool calls or a final answer.
func (b *GeminiBackend) Decide(ctx context.Context, req *Request) (*Decision, error) {
	var parts []genai.Part

	if req.UserInput != "" {
		// Turn start: refresh the system instructions with current state.
		b.setSystemInstruction()
		parts = append(parts, genai.Text(req.UserInput))
	}
	for _, obs := range req.Observations {
		parts = append(parts, genai.FunctionResponse{
			Name:     obs.Name,
			Response: obs.Result,
		})
	}
	if req.Problem != "" {
		recovery := prompts.Format(prompts.MustGet("agent.json", "parse-recovery"), map[string]string{
			"Problem": req.Problem,
		})
		parts = append(parts, genai.Text(recovery))
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty backend request")
	}

	resp, err := b.chat.SendMessage(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("chat round failed: %w", err)
	}
	return classify(resp)
}

// classify splits a model response into the tagged decision variant. A
// response mixing text and function calls is treated as tool calls; the
// text rides along as commentary the loop ignores.
func classify(resp *genai.GenerateContentResponse) (*Decision, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("response had no candidates")
	}

	decision := &Decision{}
	var segments []Segment
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.FunctionCall:
			decision.Calls = append(decision.Calls, ToolCall{Name: p.Name, Args: p.Args})
		case genai.Text:
			segments = append(segments, Segment{Type: SegmentText, Text: string(p)})
		default:
			segments = append(segments, Segment{Type: fmt.Sprintf("%T", part)})
		}
	}

	if len(decision.Calls) > 0 {
		return decision, nil
	}
	decision.Final = &Answer{Segments: segments}
	return decision, nil
}

// declarations converts the tool catalog into Gemini function
// declarations, preserving registration order.
func declarations(registry *tools.Registry) []*genai.FunctionDeclaration {
	catalog := registry.Tools()
	decls := make([]*genai.FunctionDeclaration, 0, len(catalog))
	for _, tool := range catalog {
		decl := &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
		}
		if len(tool.Params) > 0 {
			schema := &genai.Schema{
				Type:       genai.TypeObject,
				Properties: make(map[string]*genai.Schema, len(tool.Params)),
			}
			for _, param := range tool.Params {
				schema.Properties[param.Name] = paramSchema(param)
				if param.Required {
					schema.Required = append(schema.Required, param.Name)
				}
			}
			decl.Parameters = schema
		}
		decls = append(decls, decl)
	}
	return decls
}

func paramSchema(param tools.Param) *genai.Schema {
	schema := &genai.Schema{Description: param.Description}
	switch param.Type {
	case "integer":
		schema.Type = genai.TypeInteger
	case "boolean":
		schema.Type = genai.TypeBoolean
	case "array":
		schema.Type = genai.TypeArray
		schema.Items = &genai.Schema{Type: genai.TypeString}
	default:
		schema.Type = genai.TypeString
	}
	return schema
}
