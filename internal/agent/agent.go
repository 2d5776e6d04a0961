// Package agent is the LLM-backed front end: it exposes the dispatch
// operations to a model as function tools and executes whatever the
// model decides to call. Any transport failure degrades to the local
// deterministic parser for that input, so the CLI never goes silent.
package agent

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/Joseda-hg/todoagent/internal/dispatch"
)

type Frontend struct {
	client     openai.Client
	model      openai.ChatModel
	dispatcher *dispatch.Dispatcher
	local      *dispatch.LocalFrontend
	logger     *slog.Logger

	messages []openai.ChatCompletionMessageParamUnion
}

func New(apiKey, model string, dispatcher *dispatch.Dispatcher, logger *slog.Logger) *Frontend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Frontend{
		client:     openai.NewClient(option.WithAPIKey(apiKey)),
		model:      openai.ChatModel(model),
		dispatcher: dispatcher,
		local:      &dispatch.LocalFrontend{Dispatcher: dispatcher},
		logger:     logger,
		messages:   []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(systemPrompt)},
	}
}

func (f *Frontend) Handle(ctx context.Context, input string) (string, error) {
	f.messages = append(f.messages, openai.UserMessage(input))

	resp, err := f.client.Chat.Completions.New(ctx, f.params())
	if err != nil {
		f.logger.Warn("model call failed, using local parser", "err", err)
		return f.local.Handle(ctx, input)
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		if msg.Content != "" {
			f.messages = append(f.messages, msg.ToParam())
			return msg.Content, nil
		}
		// No text and no tools: the deterministic parser still gets a shot.
		return f.local.Handle(ctx, input)
	}

	f.messages = append(f.messages, msg.ToParam())

	// Execute every tool call and remember the canonical reply of the
	// last successful one in case the follow-up turn returns nothing.
	var fallback string
	for _, tc := range msg.ToolCalls {
		payload := f.invoke(ctx, tc.Function.Name, tc.Function.Arguments, &fallback)
		f.messages = append(f.messages, openai.ToolMessage(payload, tc.ID))
	}

	follow, err := f.client.Chat.Completions.New(ctx, f.params())
	if err != nil {
		f.logger.Warn("follow-up model call failed", "err", err)
		return fallback, nil
	}

	followMsg := follow.Choices[0].Message
	f.messages = append(f.messages, followMsg.ToParam())
	if followMsg.Content == "" {
		return fallback, nil
	}
	return followMsg.Content, nil
}

func (f *Frontend) params() openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model:    f.model,
		Messages: f.messages,
		Tools:    toolDefs(),
	}
}

// invoke decodes and runs one tool call, returning the JSON payload
// fed back to the model.
func (f *Frontend) invoke(ctx context.Context, name, arguments string, fallback *string) string {
	op, err := dispatch.Decode(name, []byte(arguments))
	if err != nil {
		f.logger.Warn("rejected tool call", "tool", name, "err", err)
		return errorPayload(err)
	}

	res, err := f.dispatcher.Execute(ctx, op)
	if err != nil {
		return errorPayload(err)
	}

	*fallback = dispatch.Reply(f.dispatcher, op, res)
	return resultPayload(res)
}

func errorPayload(err error) string {
	out, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(out)
}

func resultPayload(res dispatch.Result) string {
	payload := map[string]any{}
	switch {
	case res.Task != nil:
		payload["task"] = res.Task
	case res.Reminder != nil:
		payload["reminder"] = res.Reminder
	case res.Tasks != nil:
		payload["tasks"] = res.Tasks
	case res.Reminders != nil:
		payload["reminders"] = res.Reminders
	case res.Reflections != nil:
		payload["reflections"] = res.Reflections
	case res.Resolved != nil:
		payload["resolved"] = res.Resolved
	case res.Planned != nil:
		payload["planned"] = res.Planned
	default:
		payload["ok"] = true
	}
	if res.Warning != "" {
		payload["warning"] = res.Warning
	}

	out, err := json.Marshal(payload)
	if err != nil {
		return `{"ok":true}`
	}
	return string(out)
}
