package domain

import (
	"fmt"
	"sort"
)

// Behavior groups the tasks an agent may propose. Behaviors form a tree: a
// behavior can delegate to dependent sub-behaviors, and only behaviors valid
// under the current view contribute tasks.
type Behavior interface {
	fmt.Stringer

	IsValid(view StateDiff, agent AgentID) bool

	// Tasks returns the candidate tasks this behavior proposes for agent.
	// Proposals may still be individually invalid; CollectTasks filters them.
	Tasks(view StateDiff, agent AgentID) []Task

	// Dependencies returns sub-behaviors consulted after this one.
	Dependencies() []Behavior
}

// CollectTasks walks b and its dependencies and returns the valid tasks for
// agent, in canonical order with duplicates removed.
func CollectTasks(b Behavior, view StateDiff, agent AgentID) []Task {
	var tasks []Task
	collectTasks(b, view, agent, &tasks)

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].Less(tasks[j])
	})

	deduped := tasks[:0]
	for _, task := range tasks {
		if len(deduped) == 0 || !deduped[len(deduped)-1].Equal(task) {
			deduped = append(deduped, task)
		}
	}
	return deduped
}

func collectTasks(b Behavior, view StateDiff, agent AgentID, tasks *[]Task) {
	if !b.IsValid(view, agent) {
		return
	}
	for _, task := range b.Tasks(view, agent) {
		if task.IsValid(view, agent) {
			*tasks = append(*tasks, task)
		}
	}
	for _, dep := range b.Dependencies() {
		collectTasks(dep, view, agent, tasks)
	}
}
