package api

import (
	"stayfinder/internal/pkg/errs"
)

// matchOutcome returns the first target err carries. The target's own text is
// the client-facing message, so wrapped causes never leak into a response.
func matchOutcome(err error, targets ...error) (error, bool) {
	for _, t := range targets {
		if errs.Is(err, t) {
			return t, true
		}
	}
	return nil, false
}
