package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dsatutor/models"
	"dsatutor/services/tutor"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// AssistantTool interface that all tools must implement
type AssistantTool interface {
	Name() string
	Description() string
	Call(ctx context.Context, input string) (string, error)
	GetAnthropicToolSpec() anthropic.ToolInputSchemaParam
}

func generateAnthropicSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
	}
}

type SearchKnowledgeToolInput struct {
	Query string `json:"query" jsonschema:"required,description=Free-text query describing what to look up"`
	Topic string `json:"topic,omitempty" jsonschema:"description=Optional topic filter such as Arrays or Trees"`
}

type SearchKnowledgeTool struct {
	tutorService *tutor.Service
}

func NewSearchKnowledgeTool(tutorService *tutor.Service) SearchKnowledgeTool {
	return SearchKnowledgeTool{tutorService: tutorService}
}

func (s SearchKnowledgeTool) Name() string {
	return "search_knowledge"
}

func (s SearchKnowledgeTool) Description() string {
	return "Searches the DSA study corpus and returns the most relevant documents with their topic and type"
}

func (s SearchKnowledgeTool) Call(ctx context.Context, input string) (string, error) {
	var params SearchKnowledgeToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse search knowledge tool input: %v", err)
	}

	topic := models.Topic("")
	if params.Topic != "" {
		parsed, err := models.ParseTopic(params.Topic)
		if err != nil {
			return "", err
		}
		topic = parsed
	}

	docs := s.tutorService.SearchKnowledge(ctx, params.Query, topic)

	type DocumentPreview struct {
		Topic     string `json:"topic"`
		Type      string `json:"type"`
		ProblemID string `json:"problem_id,omitempty"`
		Content   string `json:"content"`
	}

	var previews []DocumentPreview
	for _, doc := range docs {
		content := doc.Content
		if len(content) > 500 {
			content = content[:500] + "..."
		}
		previews = append(previews, DocumentPreview{
			Topic:     string(doc.Topic),
			Type:      doc.Type,
			ProblemID: doc.ProblemID,
			Content:   content,
		})
	}

	result, err := json.Marshal(previews)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document previews: %v", err)
	}

	return string(result), nil
}

func (s SearchKnowledgeTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[SearchKnowledgeToolInput]()
}

type GetStudentProgressToolInput struct {
	StudentID string `json:"student_id" jsonschema:"required,description=The ID of the student whose progress to fetch"`
}

type GetStudentProgressTool struct {
	tutorService *tutor.Service
}

func NewGetStudentProgressTool(tutorService *tutor.Service) GetStudentProgressTool {
	return GetStudentProgressTool{tutorService: tutorService}
}

func (g GetStudentProgressTool) Name() string {
	return "get_student_progress"
}

func (g GetStudentProgressTool) Description() string {
	return "Retrieves a student's progress report with average mastery, strong and weak areas, and recommendations"
}

func (g GetStudentProgressTool) Call(ctx context.Context, input string) (string, error) {
	var params GetStudentProgressToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse get student progress tool input: %v", err)
	}

	report, err := g.tutorService.GetProgress(params.StudentID)
	if err != nil {
		return "", fmt.Errorf("failed to get progress: %v", err)
	}

	result, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal progress report: %v", err)
	}

	return string(result), nil
}

func (g GetStudentProgressTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[GetStudentProgressToolInput]()
}

type GetHintToolInput struct {
	ProblemID          string `json:"problem_id" jsonschema:"required,description=Identifier of the problem the student is working on"`
	ProblemTitle       string `json:"problem_title" jsonschema:"required,description=Title of the problem"`
	ProblemDescription string `json:"problem_description,omitempty" jsonschema:"description=Problem statement, used to ground the hint"`
	StudentCode        string `json:"student_code,omitempty" jsonschema:"description=The student's current code, if any"`
	StudentApproach    string `json:"student_approach,omitempty" jsonschema:"description=The approach the student says they are trying"`
	HintLevel          int    `json:"hint_level,omitempty" jsonschema:"minimum=0,maximum=3,description=Requested hint level 0-3; the tracker never goes backwards"`
}

type GetHintTool struct {
	tutorService *tutor.Service
}

func NewGetHintTool(tutorService *tutor.Service) GetHintTool {
	return GetHintTool{tutorService: tutorService}
}

func (h GetHintTool) Name() string {
	return "get_hint"
}

func (h GetHintTool) Description() string {
	return "Produces a progressive hint for a problem, from conceptual nudge (level 0) to near-solution (level 3)"
}

func (h GetHintTool) Call(ctx context.Context, input string) (string, error) {
	var params GetHintToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse get hint tool input: %v", err)
	}

	problem := models.Problem{
		ID:          params.ProblemID,
		Title:       params.ProblemTitle,
		Description: params.ProblemDescription,
	}

	hintResponse, err := h.tutorService.GetHint(ctx, problem, params.StudentCode, params.StudentApproach, params.HintLevel)
	if err != nil {
		return "", fmt.Errorf("failed to get hint: %v", err)
	}

	result, err := json.Marshal(hintResponse)
	if err != nil {
		return "", fmt.Errorf("failed to marshal hint: %v", err)
	}

	return string(result), nil
}

func (h GetHintTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[GetHintToolInput]()
}

type GetCurrentTimeToolInput struct{}

type GetCurrentTimeTool struct{}

func NewGetCurrentTimeTool() GetCurrentTimeTool {
	return GetCurrentTimeTool{}
}

func (t GetCurrentTimeTool) Name() string {
	return "get_current_time"
}

func (t GetCurrentTimeTool) Description() string {
	return "Gets the current timestamp in ISO format"
}

func (t GetCurrentTimeTool) Call(ctx context.Context, input string) (string, error) {
	var params GetCurrentTimeToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse get current time tool input: %v", err)
	}

	return time.Now().Format(time.RFC3339), nil
}

func (t GetCurrentTimeTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[GetCurrentTimeToolInput]()
}
