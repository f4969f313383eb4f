package maintenance

import (
	"time"

	"seedfund-backend/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Sweeper runs the periodic project state sweep: overdue active projects
// become expired, fully funded active projects become completed. These are
// set-based catch-up updates; the investment commit performs the same
// completion transition synchronously.
type Sweeper struct {
	DB   *gorm.DB
	cron *cron.Cron
}

func New(db *gorm.DB) *Sweeper {
	return &Sweeper{DB: db, cron: cron.New()}
}

// Run performs one sweep.
func (s *Sweeper) Run() {
	now := time.Now()

	expired := s.DB.Model(&models.Project{}).
		Where("status = ? AND deadline < ?", models.ProjectActive, now).
		Update("status", models.ProjectExpired)
	if expired.Error != nil {
		log.Error().Err(expired.Error).Msg("maintenance: expiry sweep failed")
	}

	completed := s.DB.Model(&models.Project{}).
		Where("status = ? AND raised >= goal", models.ProjectActive).
		Update("status", models.ProjectCompleted)
	if completed.Error != nil {
		log.Error().Err(completed.Error).Msg("maintenance: completion sweep failed")
	}

	log.Info().
		Int64("expired", expired.RowsAffected).
		Int64("completed", completed.RowsAffected).
		Msg("maintenance sweep finished")
}

// Start schedules Run on the given cron spec (e.g. "0 2 * * *").
func (s *Sweeper) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.Run); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule; an in-flight sweep finishes first.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
}
