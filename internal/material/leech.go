package material

import (
	"context"
	"fmt"
	"time"

	"github.com/houshuang/alif/internal/domain"
	alifpipeline "github.com/houshuang/alif/internal/pipeline"
)

// reactivateLeeches implements spec §4.4's cooldown reintroduction: once
// now reaches LeechSuspendedAt + CooldownFor(LeechCount), a suspended
// record returns to acquisition box 1 with its prior counters (TimesSeen,
// TimesCorrect, LeechCount) preserved. AcquisitionStartedAt resets to now
// since this is a fresh acquisition run for the calendar-day graduation
// guard (spec §4.3).
func (p *Pipeline) reactivateLeeches(ctx context.Context, now time.Time) (int, error) {
	suspended, err := p.knowledge.ListSuspended(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing suspended records: %w", err)
	}

	reactivated := 0
	for _, rec := range suspended {
		if rec.LeechSuspendedAt == nil {
			continue
		}
		cooldown := p.leech.CooldownFor(rec.LeechCount)
		if now.Before(rec.LeechSuspendedAt.Add(cooldown)) {
			continue
		}

		box := 1
		rec.State = domain.StateAcquiring
		rec.AcquisitionBox = &box
		rec.AcquisitionNextDue = &now
		rec.AcquisitionStartedAt = &now
		rec.FSRSCard = nil
		rec.GraduatedAt = nil

		if err := p.knowledge.Update(ctx, rec); err != nil {
			p.observer.OnItemSkipped(alifpipeline.ItemSkippedEvent{Phase: "reactivate_leeches", ItemID: rec.ID, Reason: err.Error()})
			continue
		}
		reactivated++
	}
	return reactivated, nil
}
