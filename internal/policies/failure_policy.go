package policies

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

const (
	FailureContinue = "continue"
	FailureAbort    = "abort"
)

// FailurePolicy decides whether a failed build step stops the phase.
type FailurePolicy struct {
	Action string
}

func DefaultFailurePolicy() FailurePolicy {
	return FailurePolicy{Action: FailureContinue}
}

func ParseFailurePolicy(value string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", FailureContinue:
		return FailurePolicy{Action: FailureContinue}, nil
	case FailureAbort:
		return FailurePolicy{Action: FailureAbort}, nil
	default:
		return FailurePolicy{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported build failure policy: %s", value))
	}
}

func (p FailurePolicy) StopOnFailure() bool {
	return p.Action == FailureAbort
}
