package fsrs

import (
	"fmt"

	"github.com/houshuang/alif/internal/config"
	"github.com/houshuang/alif/internal/domain"
)

// Params is the FSRS-6 weight vector and retention target. It mirrors
// config.FSRSParams field-for-field (converted with a plain cast at the
// config/fsrs boundary) so that Optimize, defined here, can be a method.
type Params config.FSRSParams

// minReviewsForOptimize is the sample size FSRS-6 needs before a weight
// re-fit is statistically meaningful (spec §4.4: "optimizable... with
// ≥ 1,000 reviews").
const minReviewsForOptimize = 1000

// Optimize is the documented extension point for re-fitting the weight
// vector from review history. Not implemented as a working optimizer: per
// spec §4.4 this requires a maximum-likelihood fit over a large review
// corpus (gradient descent against next-review outcomes), which is out of
// scope for the core scheduler. The signature exists so a future offline
// batch job can plug into Scheduler without changing its public contract.
func (p Params) Optimize(logs []domain.ReviewLog) (Params, error) {
	if len(logs) < minReviewsForOptimize {
		return p, fmt.Errorf("fsrs: need at least %d reviews to optimize, got %d", minReviewsForOptimize, len(logs))
	}
	return p, fmt.Errorf("fsrs: weight optimization is not implemented")
}
