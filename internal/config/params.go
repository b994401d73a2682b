// Package config holds the scheduler's tunable parameters as a plain,
// explicitly-passed struct rather than ambient globals, per the design
// note on "Global scheduler parameters": every threshold, cap, and weight
// named in the specification is listed here with its default, and every
// component that needs one takes it as a constructor argument.
package config

import (
	"time"

	"github.com/houshuang/alif/internal/domain"
)

// AcquisitionParams configures the Leitner-style acquisition phase (spec §4.3).
type AcquisitionParams struct {
	Box1Interval time.Duration // 4h
	Box2Interval time.Duration // 1d
	Box3Interval time.Duration // 3d

	// MinCalendarDaysForGraduation is the minimum number of distinct
	// calendar days that must have elapsed since the first review before
	// box 3 may graduate.
	MinCalendarDaysForGraduation int
}

// LeechParams configures leech detection and the cooldown ladder (spec §4.4).
type LeechParams struct {
	ThresholdReviews  int
	ThresholdAccuracy float64
	CooldownDays      []time.Duration // indexed by leech_count-1; last entry repeats for leech_count beyond len
}

// CooldownFor returns the cooldown duration for the given leech count
// (1-indexed), clamping to the last configured tier for leech_count >=
// len(CooldownDays).
func (p LeechParams) CooldownFor(leechCount int) time.Duration {
	if leechCount <= 0 {
		return 0
	}
	idx := leechCount - 1
	if idx >= len(p.CooldownDays) {
		idx = len(p.CooldownDays) - 1
	}
	return p.CooldownDays[idx]
}

// FSRSParams configures the FSRS-6 forgetting-curve scheduler (spec §4.4).
type FSRSParams struct {
	Weights          [21]float64
	RequestRetention float64
	MaximumInterval  time.Duration

	// KnownStabilityThreshold is the stability (in days) above which a
	// graduated card's state is reported as "known" rather than
	// "learning". Resolves the Open Question of where that line sits;
	// spec §3 names the states but leaves the boundary unspecified.
	KnownStabilityThreshold float64
}

// MaterialParams configures the sentence material manager (spec §4.5).
type MaterialParams struct {
	ActivePoolHardCap int // 300
	ActivePoolHeadroom int // 30
	MinSentencesPerTarget int // 1
	JITGenerationBudgetPerSession int // 10
	MinTargetWordsPerSentence int // 2 (multi-target validation floor)
	MaxTargetWordsPerSentence int // 4
}

// SessionParams configures the session builder (spec §4.6).
type SessionParams struct {
	DefaultSize int // 10-15
	MinSize     int
	MaxSize     int

	FocusCohortCap int // 200
	// AlmostDueWindow widens the FSRS due filter to catch cards that will
	// become due imminently, per spec §4.6 step 1 ("due or almost due").
	AlmostDueWindow time.Duration

	ComprehensibilityFraction float64 // 0.6
	// ComprehensibilityCountsTargets resolves the Open Question: whether
	// the gate's known-fraction denominator includes target words.
	// Specification's chosen default is false ("only scaffold").
	ComprehensibilityCountsTargets bool

	MinAcquisitionExposures int // 4
	MaxAcquisitionExposuresExpansionFactor float64

	// BackgroundRefreshThreshold is the elapsed-time gap since the last
	// reviewed card past which the builder invalidates a cached session.
	BackgroundRefreshThreshold time.Duration
}

// AutoIntroParams configures the auto-introduction controller (spec §4.7).
type AutoIntroParams struct {
	AccuracyWindowReviews int // lookback size for recent-accuracy computation

	// AccuracyBands maps a minimum accuracy threshold to the number of
	// slots granted at or above it. Evaluated highest-threshold-first.
	AccuracyBands []AccuracyBand

	PerSessionCap int // 10
	Box1SoftCap   int // 12 at steady state

	// SiblingInterferenceWindow is how far back "recently lapsed" looks
	// when skipping a candidate whose root has a freshly-failed sibling
	// (spec §4.7).
	SiblingInterferenceWindow time.Duration
}

// AccuracyBand is one row of the accuracy-throttle table.
type AccuracyBand struct {
	MinAccuracy float64
	Slots       int
}

// SlotsFor returns the number of auto-introduction slots granted for the
// given recent accuracy, per spec §4.7's band table (0 below the lowest
// configured threshold).
func (p AutoIntroParams) SlotsFor(accuracy float64) int {
	best := 0
	for _, band := range p.AccuracyBands {
		if accuracy >= band.MinAccuracy && band.Slots > best {
			best = band.Slots
		}
	}
	return best
}

// RatingMap resolves the Open Question of how a whole-sentence
// comprehension rating maps to a per-word scheduler rating.
type RatingMap struct {
	Understood domain.Rating
	Partial    domain.Rating
	NoIdea     domain.Rating
	Missed     domain.Rating
}

// SchedulerParams bundles every tunable the scheduler-side components need,
// passed explicitly into constructors rather than read from globals.
type SchedulerParams struct {
	Acquisition AcquisitionParams
	Leech       LeechParams
	FSRS        FSRSParams
	Material    MaterialParams
	Session     SessionParams
	AutoIntro   AutoIntroParams
	Ratings     RatingMap
}

// Default returns the specification's stated default parameters.
func Default() SchedulerParams {
	return SchedulerParams{
		Acquisition: AcquisitionParams{
			Box1Interval:                 4 * time.Hour,
			Box2Interval:                 24 * time.Hour,
			Box3Interval:                 3 * 24 * time.Hour,
			MinCalendarDaysForGraduation: 2,
		},
		Leech: LeechParams{
			ThresholdReviews:  5,
			ThresholdAccuracy: 0.50,
			CooldownDays: []time.Duration{
				3 * 24 * time.Hour,
				7 * 24 * time.Hour,
				14 * 24 * time.Hour,
			},
		},
		FSRS: FSRSParams{
			Weights:                 DefaultFSRSWeights,
			RequestRetention:        0.9,
			MaximumInterval:         365 * 24 * time.Hour,
			KnownStabilityThreshold: 21,
		},
		Material: MaterialParams{
			ActivePoolHardCap:             300,
			ActivePoolHeadroom:            30,
			MinSentencesPerTarget:         1,
			JITGenerationBudgetPerSession: 10,
			MinTargetWordsPerSentence:     2,
			MaxTargetWordsPerSentence:     4,
		},
		Session: SessionParams{
			DefaultSize:                            12,
			MinSize:                                 10,
			MaxSize:                                 15,
			FocusCohortCap:                          200,
			AlmostDueWindow:                         2 * time.Hour,
			ComprehensibilityFraction:               0.6,
			ComprehensibilityCountsTargets:          false,
			MinAcquisitionExposures:                 4,
			MaxAcquisitionExposuresExpansionFactor:  2.0,
			BackgroundRefreshThreshold:              15 * time.Minute,
		},
		AutoIntro: AutoIntroParams{
			AccuracyWindowReviews: 0, // 0 means no count limit inside the 2-day lookback window
			AccuracyBands: []AccuracyBand{
				{MinAccuracy: 0.0, Slots: 0},
				{MinAccuracy: 0.70, Slots: 4},
				{MinAccuracy: 0.85, Slots: 7},
				{MinAccuracy: 0.92, Slots: 10},
			},
			PerSessionCap:             10,
			Box1SoftCap:               12,
			SiblingInterferenceWindow: 48 * time.Hour,
		},
		Ratings: RatingMap{
			Understood: domain.RatingGood,
			Partial:    domain.RatingHard,
			NoIdea:     domain.RatingAgain,
			Missed:     domain.RatingAgain,
		},
	}
}
