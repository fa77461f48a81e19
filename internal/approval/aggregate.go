package approval

// ActionableWave returns the minimum sequence order among still-pending
// steps. The approve and reject paths both use this single definition so
// they can never disagree about which steps are currently actionable.
func ActionableWave(steps []Step) (int, bool) {
	wave := 0
	found := false
	for _, s := range steps {
		if s.Status != StepPending {
			continue
		}
		if !found || s.SequenceOrder < wave {
			wave = s.SequenceOrder
			found = true
		}
	}
	return wave, found
}

// Outcome is the aggregated result of all steps of one request.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeApproved
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApproved:
		return "APPROVED"
	case OutcomeRejected:
		return "REJECTED"
	default:
		return "PENDING"
	}
}

// Aggregate declares a request approved only when every step resolved
// positively; a single rejection decides the whole request.
func Aggregate(steps []Step) Outcome {
	pending := false
	for _, s := range steps {
		switch s.Status {
		case StepRejected:
			return OutcomeRejected
		case StepPending:
			pending = true
		}
	}
	if pending {
		return OutcomePending
	}
	return OutcomeApproved
}
