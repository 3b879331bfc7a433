package steps

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/colonybot-go/internal/domain/shared"
)

var knownOutcomes = []shared.OutcomeCode{
	shared.OutcomeOK,
	shared.OutcomeBusy,
	shared.OutcomeNotEnough,
	shared.OutcomeFull,
	shared.OutcomeNotInRange,
	shared.OutcomeNameExists,
	shared.OutcomeInvalidTarget,
	shared.OutcomeNoBodyPart,
}

// parseOutcome maps a symbolic outcome name such as NOT_IN_RANGE to its code
func parseOutcome(name string) (shared.OutcomeCode, error) {
	for _, code := range knownOutcomes {
		if code.Name() == name {
			return code, nil
		}
	}
	return 0, fmt.Errorf("unknown outcome %q", name)
}

func expectErrorContaining(err error, substr string) error {
	if err == nil {
		return fmt.Errorf("expected an error containing %q, got none", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		return fmt.Errorf("expected an error containing %q, got %q", substr, err.Error())
	}
	return nil
}
