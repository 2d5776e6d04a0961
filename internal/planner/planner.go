// Package planner breaks a high-level goal into short actionable
// subtasks without calling out to a model. The remote front end gets
// the same effect by letting the model fan out add_task calls.
package planner

import (
	"fmt"
	"strings"
)

var themes = []struct {
	keywords []string
	subtasks []string
}{
	{
		keywords: []string{"clean", "house", "home"},
		subtasks: []string{"clean living room", "clean kitchen", "take out trash", "do laundry"},
	},
	{
		keywords: []string{"grocery", "shopping", "buy"},
		subtasks: []string{"make grocery list", "go grocery shopping", "put groceries away"},
	},
	{
		keywords: []string{"study", "learn"},
		subtasks: []string{"review notes", "practice examples", "summarize learnings"},
	},
}

// Decompose returns subtasks for goal using keyword heuristics, with a
// generic start/work/finish breakdown as the fallback.
func Decompose(goal string) []string {
	g := strings.ToLower(goal)

	var tasks []string
	for _, theme := range themes {
		for _, kw := range theme.keywords {
			if strings.Contains(g, kw) {
				tasks = append(tasks, theme.subtasks...)
				break
			}
		}
	}

	if len(tasks) == 0 {
		tasks = []string{
			fmt.Sprintf("start: %s", goal),
			fmt.Sprintf("work on: %s", goal),
			fmt.Sprintf("finish: %s", goal),
		}
	}
	return tasks
}
