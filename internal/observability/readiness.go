package observability

import (
	"context"
	"errors"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// Readiness reports ready only when every registered check passes.
type Readiness struct {
	checks []sharedobs.ReadinessChecker
}

// NewReadiness combines checks. Nil checks are skipped.
func NewReadiness(checks ...sharedobs.ReadinessChecker) *Readiness {
	r := &Readiness{}
	for _, c := range checks {
		if c != nil {
			r.checks = append(r.checks, c)
		}
	}
	return r
}

// CheckReadiness runs every check and joins their failures.
func (r *Readiness) CheckReadiness(ctx context.Context) error {
	var errs []error
	for _, c := range r.checks {
		if err := c.CheckReadiness(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
