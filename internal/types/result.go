package types

type ItemOutcome struct {
	Item   string
	Status ItemStatus
	Detail string
}

// CategoryResult summarizes one manifest category within a phase.
type CategoryResult struct {
	Name      string
	Succeeded []ItemOutcome
	Skipped   []ItemOutcome
	Failed    []ItemOutcome
}

func (r *CategoryResult) Record(outcome ItemOutcome) {
	switch outcome.Status {
	case ItemSucceeded:
		r.Succeeded = append(r.Succeeded, outcome)
	case ItemSkipped:
		r.Skipped = append(r.Skipped, outcome)
	default:
		r.Failed = append(r.Failed, outcome)
	}
}

// Attempted counts items that reached an external action.
func (r CategoryResult) Attempted() int {
	return len(r.Succeeded) + len(r.Failed)
}

// AllFailed is true only when at least one item was attempted and none
// of them succeeded.
func (r CategoryResult) AllFailed() bool {
	return len(r.Failed) > 0 && len(r.Succeeded) == 0
}

type PhaseResult struct {
	Phase      Phase
	Categories []CategoryResult
}

func (r PhaseResult) Category(name string) (CategoryResult, bool) {
	for _, category := range r.Categories {
		if category.Name == name {
			return category, true
		}
	}
	return CategoryResult{}, false
}

func (r PhaseResult) FailedCount() int {
	total := 0
	for _, category := range r.Categories {
		total += len(category.Failed)
	}
	return total
}

// ProcessHandle identifies a process spawned during one Run invocation.
type ProcessHandle struct {
	Label string
	PID   int
}
