package custody

import (
	"fmt"

	"github.com/handharbeni/notaryflow-backend/pkg/enums"
	pkgerrors "github.com/handharbeni/notaryflow-backend/pkg/errors"
)

// allowedTransitions is the closed state machine for custody requests.
// Terminal states have no outgoing edges.
var allowedTransitions = map[enums.RequestStatus][]enums.RequestStatus{
	enums.RequestStatusPendingApproval: {
		enums.RequestStatusApprovedPendingPickup,
		enums.RequestStatusRejected,
		enums.RequestStatusCancelled,
	},
	enums.RequestStatusApprovedPendingPickup: {
		enums.RequestStatusCheckedOut,
	},
	enums.RequestStatusCheckedOut: {
		enums.RequestStatusReturned,
	},
}

// checkTransition distinguishes a finalized request from a merely
// unreachable target so clients can tell the two apart.
func checkTransition(from, to enums.RequestStatus) error {
	if from.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeTerminalRequest, fmt.Sprintf("request already %s", from)).
			WithDetails(map[string]any{"status": from})
	}
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeBadTransition, fmt.Sprintf("cannot transition from %s to %s", from, to)).
		WithDetails(map[string]any{"from": from, "to": to})
}
