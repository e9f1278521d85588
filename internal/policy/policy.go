// Package policy holds the access-control predicates. Each check is a plain
// function over (actor, entity): handlers call them directly instead of
// composing permission mixins.
package policy

import "github.com/practicehub/catalog-api/internal/models"

// Actor describes the caller of a request. A nil Actor is anonymous.
type Actor struct {
	ID      uint64
	IsStaff bool
}

// CanViewTask reports whether the actor may read the task.
func CanViewTask(actor *Actor, task *models.ProgrammingTask) bool {
	if task.Status == models.TaskStatusPublic {
		return true
	}
	return actor != nil && actor.ID == task.AddedByID
}

// CanModifyTask reports whether the actor may update or delete the task.
// Ownership gates writes regardless of the task's visibility.
func CanModifyTask(actor *Actor, task *models.ProgrammingTask) bool {
	return actor != nil && actor.ID == task.AddedByID
}

// CanViewSolution reports whether the actor may read the solution.
func CanViewSolution(actor *Actor, solution *models.Solution) bool {
	if solution.IsPublic {
		return true
	}
	return actor != nil && actor.ID == solution.UserID
}

// CanModifySolution reports whether the actor may update, delete or publish
// the solution.
func CanModifySolution(actor *Actor, solution *models.Solution) bool {
	return actor != nil && actor.ID == solution.UserID
}

// CanWriteReference reports whether the actor may mutate reference data.
func CanWriteReference(actor *Actor) bool {
	return actor != nil && actor.IsStaff
}
