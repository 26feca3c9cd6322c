package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"dsatutor/models"
	"dsatutor/services/tutor"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type Service struct {
	client *anthropic.Client
	tools  []AssistantTool
}

func NewService(anthropicAPIKey string, tutorService *tutor.Service) (*Service, error) {
	client := anthropic.NewClient(option.WithAPIKey(anthropicAPIKey))

	tools := []AssistantTool{
		NewSearchKnowledgeTool(tutorService),
		NewGetStudentProgressTool(tutorService),
		NewGetHintTool(tutorService),
		NewGetCurrentTimeTool(),
	}

	return &Service{
		client: &client,
		tools:  tools,
	}, nil
}

// ProcessMessage runs one round of the tool-use conversation: send the
// history, collect the assistant reply, execute any requested tools and
// append their results. The caller sends the grown history back to
// continue the exchange.
func (s *Service) ProcessMessage(messages []models.AssistantMessage) (*models.AssistantResponse, error) {
	log.Printf("[INFO] Starting assistant message processing with %d messages", len(messages))

	ctx := context.Background()

	anthropicMessages := s.convertToAnthropicMessages(messages)
	toolSpecs := s.buildAnthropicToolSpecs()

	response, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.ModelClaude4Sonnet20250514,
		MaxTokens: 4096,
		System:    []anthropic.TextBlockParam{{Text: AssistantSystemPrompt}},
		Messages:  anthropicMessages,
		Tools:     toolSpecs,
	})
	if err != nil {
		log.Printf("[ERROR] Failed to call Anthropic API: %v", err)
		return nil, fmt.Errorf("failed to call Anthropic API: %v", err)
	}

	updatedMessages := make([]models.AssistantMessage, len(messages))
	copy(updatedMessages, messages)

	toolUses := []anthropic.ToolUseBlock{}
	assistantContent := ""

	for _, block := range response.Content {
		switch block := block.AsAny().(type) {
		case anthropic.TextBlock:
			assistantContent += block.Text
		case anthropic.ToolUseBlock:
			toolUses = append(toolUses, block)
		}
	}

	assistantMsg := models.AssistantMessage{
		Role:    "assistant",
		Content: assistantContent,
	}

	for _, toolUse := range toolUses {
		inputJSON, _ := json.Marshal(toolUse.Input)
		var inputMap map[string]interface{}
		json.Unmarshal(inputJSON, &inputMap)

		assistantMsg.ToolCalls = append(assistantMsg.ToolCalls, models.ToolCall{
			ID:        toolUse.ID,
			Name:      toolUse.Name,
			Arguments: inputMap,
		})
	}

	updatedMessages = append(updatedMessages, assistantMsg)

	for _, toolUse := range toolUses {
		log.Printf("[INFO] Executing tool: %s with arguments: %v", toolUse.Name, toolUse.Input)

		inputJSON, _ := json.Marshal(toolUse.Input)

		result, err := s.executeTool(ctx, toolUse.Name, string(inputJSON))
		if err != nil {
			log.Printf("[ERROR] Tool execution failed: %v", err)
			result = fmt.Sprintf("Error: %v", err)
		}

		updatedMessages = append(updatedMessages, models.AssistantMessage{
			Role: "tool",
			ToolResults: []models.ToolResult{
				{
					ToolCallID: toolUse.ID,
					Content:    result,
				},
			},
		})
	}

	log.Printf("[INFO] Assistant message processing completed (%d tool calls)", len(toolUses))

	return &models.AssistantResponse{
		Messages: updatedMessages,
	}, nil
}

func (s *Service) convertToAnthropicMessages(messages []models.AssistantMessage) []anthropic.MessageParam {
	var anthropicMessages []anthropic.MessageParam

	for _, msg := range messages {
		switch msg.Role {
		case "user":
			anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case "assistant":
			contentBlocks := []anthropic.ContentBlockParamUnion{}

			if msg.Content != "" {
				contentBlocks = append(contentBlocks, anthropic.ContentBlockParamUnion{
					OfText: &anthropic.TextBlockParam{Text: msg.Content},
				})
			}

			for _, toolCall := range msg.ToolCalls {
				contentBlocks = append(contentBlocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    toolCall.ID,
						Name:  toolCall.Name,
						Input: toolCall.Arguments,
					},
				})
			}

			anthropicMessages = append(anthropicMessages, anthropic.NewAssistantMessage(contentBlocks...))
		case "tool":
			// Tool results go back as user-role tool result blocks.
			toolResultBlocks := []anthropic.ContentBlockParamUnion{}
			for _, result := range msg.ToolResults {
				toolResultBlocks = append(toolResultBlocks, anthropic.ContentBlockParamUnion{
					OfToolResult: &anthropic.ToolResultBlockParam{
						ToolUseID: result.ToolCallID,
						Content: []anthropic.ToolResultBlockParamContentUnion{
							{OfText: &anthropic.TextBlockParam{Text: result.Content}},
						},
					},
				})
			}
			anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(toolResultBlocks...))
		}
	}

	return anthropicMessages
}

func (s *Service) buildAnthropicToolSpecs() []anthropic.ToolUnionParam {
	var toolSpecs []anthropic.ToolUnionParam

	for _, tool := range s.tools {
		toolSpecs = append(toolSpecs, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name(),
				Description: anthropic.String(tool.Description()),
				InputSchema: tool.GetAnthropicToolSpec(),
			},
		})
	}

	return toolSpecs
}

func (s *Service) executeTool(ctx context.Context, toolName, arguments string) (string, error) {
	for _, tool := range s.tools {
		if tool.Name() == toolName {
			return tool.Call(ctx, arguments)
		}
	}
	return "", fmt.Errorf("tool %s not found", toolName)
}
