package repositories

import (
	"fmt"

	"github.com/yigit/admission/internal/app/models"
)

// ReorderError points at the aspiration that made a reorder batch fail
type ReorderError struct {
	AspirationID int64
	Err          error
}

func (e *ReorderError) Error() string {
	return fmt.Sprintf("aspiration %d: %v", e.AspirationID, e.Err)
}

func (e *ReorderError) Unwrap() error {
	return e.Err
}

// PlanReorder checks a batch of priority changes against every aspiration the
// candidate currently owns and returns the new priority per touched aspiration.
// The batch is rejected as a whole: unowned ids yield ErrNotFound, out-of-range
// priorities ErrPriorityRange, and any duplicate id or resulting (exam, priority)
// clash ErrPriorityCollision.
func PlanReorder(owned []*models.Aspiration, changes []models.PriorityChange, maxPriority int) (map[int64]int, error) {
	byID := make(map[int64]*models.Aspiration, len(owned))
	for _, a := range owned {
		byID[a.ID] = a
	}

	plan := make(map[int64]int, len(changes))
	for _, ch := range changes {
		if _, ok := byID[ch.AspirationID]; !ok {
			return nil, &ReorderError{AspirationID: ch.AspirationID, Err: ErrNotFound}
		}
		if ch.Priority < 1 || ch.Priority > maxPriority {
			return nil, &ReorderError{AspirationID: ch.AspirationID, Err: ErrPriorityRange}
		}
		if _, dup := plan[ch.AspirationID]; dup {
			return nil, &ReorderError{AspirationID: ch.AspirationID, Err: ErrPriorityCollision}
		}
		plan[ch.AspirationID] = ch.Priority
	}

	type slot struct {
		examID   int64
		priority int
	}
	taken := make(map[slot]int64, len(owned))
	for _, a := range owned {
		priority := a.Priority
		if p, ok := plan[a.ID]; ok {
			priority = p
		}
		key := slot{examID: a.ExamID, priority: priority}
		if other, clash := taken[key]; clash {
			id := a.ID
			if _, moved := plan[id]; !moved {
				id = other
			}
			return nil, &ReorderError{AspirationID: id, Err: ErrPriorityCollision}
		}
		taken[key] = a.ID
	}

	return plan, nil
}
