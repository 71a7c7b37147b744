package metrics

import "github.com/haguru/signup/internal/interfaces"

var SignupDurationSecondsBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

const (
	SignupRequestsTotal        = "requests_total"
	SignupRequestsTotalHelp    = "Total number of signup requests received"
	SignupSuccessTotal         = "success_total"
	SignupSuccessTotalHelp     = "Total number of accounts created"
	SignupRejectedTotal        = "rejected_total"
	SignupRejectedTotalHelp    = "Total number of signup requests rejected with a 400, by reason"
	SignupErrorsTotal          = "errors_total"
	SignupErrorsTotalHelp      = "Total number of signup requests that failed unexpectedly"
	SignupDurationSeconds      = "duration_seconds"
	SignupDurationSecondsHelp  = "Duration of signup requests in seconds, by outcome"
	SignupInFlightRequests     = "in_flight_requests"
	SignupInFlightRequestsHelp = "Number of signup requests currently being handled"

	// label values
	ReasonMalformed  = "malformed"
	ReasonValidation = "validation"
	ReasonDuplicate  = "duplicate"

	OutcomeCreated  = "created"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// RegisterSignupMetrics registers every metric the signup route reports on.
func RegisterSignupMetrics(m interfaces.Metrics) {
	m.RegisterCounter(SignupRequestsTotal, SignupRequestsTotalHelp)
	m.RegisterCounter(SignupSuccessTotal, SignupSuccessTotalHelp)
	m.RegisterCounterVec(SignupRejectedTotal, SignupRejectedTotalHelp, []string{"reason"})
	m.RegisterCounter(SignupErrorsTotal, SignupErrorsTotalHelp)
	m.RegisterHistogramVec(SignupDurationSeconds, SignupDurationSecondsHelp,
		SignupDurationSecondsBuckets, []string{"outcome"})
	m.RegisterGauge(SignupInFlightRequests, SignupInFlightRequestsHelp)
}
