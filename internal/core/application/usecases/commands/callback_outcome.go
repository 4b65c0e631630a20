package commands

// CallbackOutcome is what a reconciliation handler did with one gateway callback.
type CallbackOutcome string

const (
	// OutcomeApplied means the callback changed state.
	OutcomeApplied CallbackOutcome = "applied"
	// OutcomeDuplicate means the order already was in the state the callback asks for.
	OutcomeDuplicate CallbackOutcome = "duplicate"
	// OutcomeIgnored means the order moved on and the callback no longer applies.
	OutcomeIgnored CallbackOutcome = "ignored"
	// OutcomeRejected means the callback failed verification and was dropped.
	OutcomeRejected CallbackOutcome = "rejected"
	// OutcomeAmountMismatch means a verified callback reported an amount other than the one owed.
	OutcomeAmountMismatch CallbackOutcome = "amount_mismatch"
	// OutcomeUnknownOrder means the callback names an order that does not exist.
	OutcomeUnknownOrder CallbackOutcome = "unknown_order"
	// OutcomeDeclined means a staged payment failed and its intent was discarded.
	OutcomeDeclined CallbackOutcome = "declined"
)

func (o CallbackOutcome) String() string {
	return string(o)
}
