package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/lmittmann/tint"

	"rolebot/bot/logging"
	"rolebot/bot/panels"
	"rolebot/bot/session"
	"rolebot/bot/store"
)

const reconcileTimeout = 5 * time.Minute

// ReconcilePanels pushes the stored state of every panel to its message.
// Panels whose message or channel is gone are reported and left alone.
func ReconcilePanels(st *store.Store, sess session.Session, log *slog.Logger, pause time.Duration) func() {
	log = logging.Named(log, "reconcile")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()

		allPanels, err := st.AllPanels(ctx)
		if err != nil {
			log.ErrorContext(ctx, "An error occurred while querying for panels", tint.Err(err))
			return
		}

		refreshed, missing := 0, 0
		for n, panel := range allPanels {
			if n > 0 && pause > 0 {
				select {
				case <-ctx.Done():
					log.WarnContext(ctx, "Reconciliation stopped early", "refreshed", refreshed)
					return
				case <-time.After(pause):
				}
			}

			err := panels.Refresh(ctx, sess, st, panel)
			switch {
			case session.IsUnknownResource(err):
				missing++
				log.WarnContext(ctx, "Panel message no longer exists",
					"panel_id", panel.Id, "guild_id", panel.GuildId, "channel_id", panel.ChannelId, "message_id", panel.MessageId)
			case err != nil:
				log.ErrorContext(ctx, "Could not refresh panel", "panel_id", panel.Id, "guild_id", panel.GuildId, tint.Err(err))
			default:
				refreshed++
			}
		}

		log.InfoContext(ctx, "Reconciled panels", "total", len(allPanels), "refreshed", refreshed, "missing", missing)
	}
}

// NewScheduler runs job every interval on a UTC scheduler, skipping a run
// while the previous one is still going. The first run waits a full interval.
// The scheduler is not started.
func NewScheduler(interval time.Duration, job func()) (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Every(interval).SingletonMode().WaitForSchedule().Do(job); err != nil {
		return nil, fmt.Errorf("could not schedule job: %w", err)
	}
	return scheduler, nil
}
