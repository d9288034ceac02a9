package services

import (
	"resto-tracker/internal/models"
)

// transitions is the full legal-transition table. Forward movement is
// strictly one stage at a time; CANCELED is reachable from every
// non-terminal status; COMPLETED and CANCELED are terminal.
var transitions = map[string][]string{
	models.StatusReceived:   {models.StatusInProgress, models.StatusCanceled},
	models.StatusInProgress: {models.StatusReady, models.StatusCanceled},
	models.StatusReady:      {models.StatusCompleted, models.StatusCanceled},
	models.StatusCompleted:  {},
	models.StatusCanceled:   {},
}

// NextStatuses returns the statuses legally reachable from current. It is a
// pure function; callers pick a target from this set before requesting a
// transition. Unknown codes have no successors.
func NextStatuses(current string) []string {
	next, ok := transitions[current]
	if !ok {
		return nil
	}
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// validateTransition returns an InvalidTransition error unless target is in
// current's legal-next set.
func validateTransition(current, target string) error {
	for _, next := range transitions[current] {
		if next == target {
			return nil
		}
	}
	return models.NewError(models.KindInvalidTransition, "cannot move order from %s to %s", current, target)
}
