package acquisition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houshuang/alif/internal/config"
	"github.com/houshuang/alif/internal/domain"
)

func intPtr(i int) *int { return &i }

func TestAdvanceBox_Box1GoodAdvancesToBox2(t *testing.T) {
	params := config.Default().Acquisition
	now := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	rec := &domain.KnowledgeRecord{AcquisitionBox: intPtr(1)}

	tr := AdvanceBox(rec, domain.RatingGood, now, params)

	assert.Equal(t, 2, tr.NewBox)
	assert.False(t, tr.Graduated)
	assert.Equal(t, now.Add(params.Box1Interval), tr.NewNextDue)
}

func TestAdvanceBox_Box1AgainStaysInBox1(t *testing.T) {
	params := config.Default().Acquisition
	now := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	rec := &domain.KnowledgeRecord{AcquisitionBox: intPtr(1)}

	tr := AdvanceBox(rec, domain.RatingAgain, now, params)

	assert.Equal(t, 1, tr.NewBox)
	assert.Equal(t, now.Add(params.Box1Interval), tr.NewNextDue)
}

func TestAdvanceBox_Box2GoodWhenDueAdvancesToBox3(t *testing.T) {
	params := config.Default().Acquisition
	now := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	due := now.Add(-time.Minute)
	rec := &domain.KnowledgeRecord{AcquisitionBox: intPtr(2), AcquisitionNextDue: &due}

	tr := AdvanceBox(rec, domain.RatingGood, now, params)

	assert.Equal(t, 3, tr.NewBox)
	assert.Equal(t, now.Add(params.Box2Interval), tr.NewNextDue)
}

func TestAdvanceBox_Box2GoodWhenNotDueIsExposureOnly(t *testing.T) {
	params := config.Default().Acquisition
	now := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	notYetDue := now.Add(time.Hour)
	rec := &domain.KnowledgeRecord{AcquisitionBox: intPtr(2), AcquisitionNextDue: &notYetDue}

	tr := AdvanceBox(rec, domain.RatingGood, now, params)

	assert.True(t, tr.ExposureOnly)
	assert.Equal(t, 2, tr.NewBox)
	assert.False(t, tr.Graduated)
}

func TestAdvanceBox_Box2AgainDropsToBox1(t *testing.T) {
	params := config.Default().Acquisition
	now := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	rec := &domain.KnowledgeRecord{AcquisitionBox: intPtr(2)}

	tr := AdvanceBox(rec, domain.RatingAgain, now, params)

	assert.Equal(t, 1, tr.NewBox)
	assert.Equal(t, now.Add(params.Box1Interval), tr.NewNextDue)
}

func TestAdvanceBox_Box3GraduatesWhenDueAndCalendarGuardSatisfied(t *testing.T) {
	params := config.Default().Acquisition
	now := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	due := now.Add(-time.Minute)
	startedAt := now.Add(-3 * 24 * time.Hour)
	rec := &domain.KnowledgeRecord{AcquisitionBox: intPtr(3), AcquisitionNextDue: &due, AcquisitionStartedAt: &startedAt}

	tr := AdvanceBox(rec, domain.RatingEasy, now, params)

	assert.True(t, tr.Graduated)
}

func TestAdvanceBox_Box3CannotGraduateSameCalendarDay(t *testing.T) {
	params := config.Default().Acquisition
	now := time.Date(2026, 7, 31, 22, 0, 0, 0, time.UTC)
	due := now.Add(-time.Minute)
	startedAt := time.Date(2026, 7, 31, 6, 0, 0, 0, time.UTC) // same calendar day, many hours apart
	rec := &domain.KnowledgeRecord{AcquisitionBox: intPtr(3), AcquisitionNextDue: &due, AcquisitionStartedAt: &startedAt}

	tr := AdvanceBox(rec, domain.RatingGood, now, params)

	assert.False(t, tr.Graduated, "the calendar-day guard must block graduation within a single day regardless of review count")
	assert.True(t, tr.ExposureOnly)
}

func TestAdvanceBox_Box3AgainDropsToBox1(t *testing.T) {
	params := config.Default().Acquisition
	now := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	rec := &domain.KnowledgeRecord{AcquisitionBox: intPtr(3)}

	tr := AdvanceBox(rec, domain.RatingAgain, now, params)

	assert.Equal(t, 1, tr.NewBox)
	assert.False(t, tr.Graduated)
}

func TestDistinctCalendarDays_CountsInclusively(t *testing.T) {
	since := time.Date(2026, 7, 29, 23, 0, 0, 0, time.UTC)
	now := time.Date(2026, 7, 31, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, distinctCalendarDays(since, now))
}

func TestGraduate_SeedsCardWithGoodRatingInitialReview(t *testing.T) {
	now := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)
	weights := config.DefaultFSRSWeights

	card := Graduate(weights, now)

	require.NotNil(t, card)
	assert.Equal(t, 1, card.Reps)
	assert.Equal(t, now, card.LastReviewAt)
	assert.Greater(t, card.Stability, 0.0)
}
