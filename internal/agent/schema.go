package agent

import (
	"github.com/openai/openai-go/v2"
)

const systemPrompt = `You are a concise To-Do assistant.
- When the user asks to add a task, call add_task with a short title and, if present, the natural date/time phrase as "due".
- For "list" requests, call list_tasks; pass a scope (all, open, done, today, this_week, overdue) when the user asks for one.
- For "complete" requests, call complete_task with the numeric id.
- For "update" requests, call update_task with the id and a new title and/or due phrase.
- For reminders: schedule with set_reminder, cancel with cancel_reminder, shift with snooze_reminder, view with list_reminders.
- To break a high-level goal into subtasks, call plan_goal.
- If a tool returns a "warning" like due_is_past or due_parse_failed, state it briefly in your reply.
- Prefer tool calls over free-text answers and keep language crisp.`

func obj(required []string, properties map[string]any) openai.FunctionParameters {
	return openai.FunctionParameters{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func toolDefs() []openai.ChatCompletionToolUnionParam {
	return []openai.ChatCompletionToolUnionParam{
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        "add_task",
			Description: openai.String("Create a to-do item. due may be a natural phrase or ISO 8601."),
			Parameters: obj([]string{"title"}, map[string]any{
				"title": map[string]any{"type": "string"},
				"due":   map[string]any{"type": []string{"string", "null"}},
			}),
		}),
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        "list_tasks",
			Description: openai.String("List tasks by scope: one of {all, open, done, today, this_week, overdue}."),
			Parameters: obj(nil, map[string]any{
				"scope": map[string]any{
					"type": "string",
					"enum": []string{"all", "open", "done", "today", "this_week", "overdue"},
				},
			}),
		}),
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        "complete_task",
			Description: openai.String("Mark a task complete by id."),
			Parameters: obj([]string{"task_id"}, map[string]any{
				"task_id": map[string]any{"type": "integer"},
			}),
		}),
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        "update_task",
			Description: openai.String("Update a task's title and/or due phrase."),
			Parameters: obj([]string{"task_id"}, map[string]any{
				"task_id": map[string]any{"type": "integer"},
				"title":   map[string]any{"type": []string{"string", "null"}},
				"due":     map[string]any{"type": []string{"string", "null"}},
			}),
		}),
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        "delete_task",
			Description: openai.String("Delete a task by id; its reminders are removed too."),
			Parameters: obj([]string{"task_id"}, map[string]any{
				"task_id": map[string]any{"type": "integer"},
			}),
		}),
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        "set_reminder",
			Description: openai.String("Schedule a reminder for a task; remind_at may be a natural phrase or ISO 8601."),
			Parameters: obj([]string{"task_id", "remind_at"}, map[string]any{
				"task_id":   map[string]any{"type": "integer"},
				"remind_at": map[string]any{"type": "string"},
			}),
		}),
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        "cancel_reminder",
			Description: openai.String("Cancel a reminder by id."),
			Parameters: obj([]string{"reminder_id"}, map[string]any{
				"reminder_id": map[string]any{"type": "integer"},
			}),
		}),
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        "snooze_reminder",
			Description: openai.String("Shift a pending reminder forward by N minutes."),
			Parameters: obj([]string{"reminder_id", "minutes"}, map[string]any{
				"reminder_id": map[string]any{"type": "integer"},
				"minutes":     map[string]any{"type": "integer"},
			}),
		}),
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        "list_reminders",
			Description: openai.String("List reminders (only pending by default)."),
			Parameters: obj(nil, map[string]any{
				"only_pending": map[string]any{"type": "boolean"},
			}),
		}),
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        "parse_when",
			Description: openai.String("Resolve a natural-language date/time phrase to an absolute timestamp."),
			Parameters: obj([]string{"text"}, map[string]any{
				"text": map[string]any{"type": "string"},
			}),
		}),
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        "plan_goal",
			Description: openai.String("Break a high-level goal into actionable subtasks and add them."),
			Parameters: obj([]string{"goal"}, map[string]any{
				"goal": map[string]any{"type": "string"},
			}),
		}),
		openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        "list_reflections",
			Description: openai.String("Show the agent's recent reflections."),
			Parameters:  obj(nil, map[string]any{}),
		}),
	}
}
