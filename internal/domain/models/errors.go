package models

import (
	"errors"
	"fmt"
)

// Rejection reasons for policy violations.
const (
	ReasonModelNotPermitted      = "model_not_permitted"
	ReasonHorizonExceedsTier     = "horizon_exceeds_tier_limit"
	ReasonQuotaExceeded          = "quota_exceeded"
)

// PolicyViolation rejects a request that asked for more than its tier allows.
// Always recoverable by choosing a compliant request; never downgraded and retried.
type PolicyViolation struct {
	Reason  string
	Message string
}

func (e *PolicyViolation) Error() string {
	return fmt.Sprintf("policy violation (%s): %s", e.Reason, e.Message)
}

// NewPolicyViolation builds a reason-tagged rejection.
func NewPolicyViolation(reason, format string, a ...interface{}) *PolicyViolation {
	return &PolicyViolation{Reason: reason, Message: fmt.Sprintf(format, a...)}
}

var (
	// ErrNoData means the market data provider returned nothing for the symbol.
	ErrNoData = errors.New("no price data for symbol")

	// ErrInsufficientHistory means the horizon is too large relative to the
	// usable rows, leaving an empty or unsplittable trainable set.
	ErrInsufficientHistory = errors.New("insufficient history for requested horizon")

	// ErrPipelineFailure wraps any unexpected numerical or provider error
	// inside the pipeline. Surfaced generically, never retried automatically.
	ErrPipelineFailure = errors.New("forecast pipeline failure")
)

// IsPolicyViolation reports whether err is a tier policy rejection.
func IsPolicyViolation(err error) bool {
	var pv *PolicyViolation
	return errors.As(err, &pv)
}
