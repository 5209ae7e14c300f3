package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const submitToolName = "submit_adaptive_question"

type OpenAIOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// OpenAIClient generates questions directly with a chat model, forcing a single tool call
// whose arguments follow the reflected schema of openAIToolArgs.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	params  map[string]any
}

type openAIToolArgs struct {
	Stop          bool     `json:"stop" jsonschema_description:"true when the learner has shown enough and the quiz should end"`
	Summary       string   `json:"summary" jsonschema_description:"short performance summary, only when stop is true"`
	Question      string   `json:"question" jsonschema_description:"question text, empty when stop is true"`
	Difficulty    string   `json:"difficulty" jsonschema:"enum=Easy,enum=Medium,enum=Hard"`
	Options       []string `json:"options" jsonschema_description:"four answer options"`
	CorrectOption string   `json:"correct_option" jsonschema_description:"exact text of the correct option"`
	Explanation   string   `json:"explanation" jsonschema_description:"why the correct option is right"`
}

func NewOpenAI(opts OpenAIOptions) (*OpenAIClient, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, errors.New("missing OPENAI_API_KEY")
	}
	cfg := openai.DefaultConfig(key)
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = openai.GPT4o
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	params, err := toolParameters()
	if err != nil {
		return nil, err
	}
	return &OpenAIClient{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
		params:  params,
	}, nil
}

func toolParameters() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(openAIToolArgs{})
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal tool schema: %w", err)
	}
	var params map[string]any
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("decode tool schema: %w", err)
	}
	delete(params, "$schema")
	delete(params, "$id")
	return params, nil
}

func (c *OpenAIClient) Generate(ctx context.Context, req Request) (*Result, error) {
	ctx, span := otel.Tracer("adaptivequiz/generator").Start(ctx, "generator.openai.generate")
	defer span.End()
	span.SetAttributes(
		attribute.Int("question_number", req.QuestionNumber),
		attribute.String("model", c.model),
	)

	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx2, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
		Temperature: 0.4,
		Tools: []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        submitToolName,
				Description: "Submit the next adaptive quiz question, or stop the quiz",
				Parameters:  c.params,
			},
		}},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: submitToolName},
		},
	})
	if err != nil {
		err = classify(ctx2, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	res, err := decodeToolCall(resp)
	if err == nil {
		err = validate(res)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Bool("stop", res.Stop))
	return res, nil
}

func decodeToolCall(resp openai.ChatCompletionResponse) (*Result, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrInvalidResult)
	}
	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		return nil, fmt.Errorf("%w: no tool calls", ErrInvalidResult)
	}
	call := msg.ToolCalls[0]
	if call.Function.Name != submitToolName {
		return nil, fmt.Errorf("%w: unexpected tool %q", ErrInvalidResult, call.Function.Name)
	}
	var args openAIToolArgs
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}
	if args.Stop {
		res := &Result{Stop: true}
		if s := strings.TrimSpace(args.Summary); s != "" {
			res.Summary = map[string]any{"message": s}
		}
		return res, nil
	}
	q := &Question{
		Question:      strings.TrimSpace(args.Question),
		Difficulty:    strings.TrimSpace(args.Difficulty),
		CorrectOption: strings.TrimSpace(args.CorrectOption),
		Explanation:   strings.TrimSpace(args.Explanation),
	}
	for i, o := range args.Options {
		q.Options = append(q.Options, Option{ID: Label(i), Text: strings.TrimSpace(o)})
	}
	return &Result{Question: q}, nil
}

const systemPrompt = "You run an adaptive multiple choice quiz. Pick the next question's difficulty from the " +
	"learner's recent answers: step up after correct answers, step down after wrong ones. " +
	"Always answer through the submit_adaptive_question tool."

func buildPrompt(req Request) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Main topic: %s\n", req.MainTopic)
	if req.TopicHierarchy != "" {
		fmt.Fprintf(&sb, "Previously covered topics: %s\n", req.TopicHierarchy)
	}
	if req.FutureTopic != "" {
		fmt.Fprintf(&sb, "Upcoming topics (do not test these): %s\n", req.FutureTopic)
	}
	fmt.Fprintf(&sb, "Student level: %s\n", req.StudentLevel)
	fmt.Fprintf(&sb, "Question %d of at most %d\n", req.QuestionNumber, req.TargetLength)
	if req.PreviousVerdict != nil {
		fmt.Fprintf(&sb, "The previous answer was: %s\n", *req.PreviousVerdict)
	}
	if len(req.ConversationHistory) > 0 {
		sb.WriteString("\nSo far:\n")
		for _, line := range req.ConversationHistory {
			sb.WriteString("- ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\nRequirements:\n")
	sb.WriteString("- Exactly 4 options with one correct answer\n")
	sb.WriteString("- correct_option must repeat the correct option text exactly\n")
	sb.WriteString("- Do not repeat a question from the history\n")
	return sb.String()
}
