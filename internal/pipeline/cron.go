package pipeline

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs periodic discovery for every profile that opted into
// automatic discovery. Each tick starts one session per such profile, built
// from the profile's own keywords and locations.
type Scheduler struct {
	service *Service
	sources []string
	cron    *cron.Cron
	log     *zap.Logger
}

// NewScheduler builds a scheduler that will run discovery against the given
// sources on each tick.
func NewScheduler(service *Service, sources []string, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		service: service,
		sources: sources,
		cron:    cron.New(),
		log:     log,
	}
}

// Start registers the discovery job under spec (standard cron syntax, e.g.
// "0 6 * * *" for daily at 06:00) and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("discovery scheduler started", zap.String("spec", spec))
	return nil
}

// Stop stops the scheduler and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("discovery scheduler stopped")
}

// runOnce starts one discovery session per auto-discover profile. A failed
// session for one profile does not block the others.
func (s *Scheduler) runOnce(ctx context.Context) {
	profiles, err := s.service.store.ActiveProfiles(ctx)
	if err != nil {
		s.log.Error("scheduled discovery: failed to load profiles", zap.Error(err))
		return
	}

	started := 0
	for _, profile := range profiles {
		if !profile.AutoDiscover || len(profile.Keywords) == 0 {
			continue
		}

		req := DiscoveryRequest{
			Keywords:  profile.Keywords,
			Locations: profile.PreferredLocations,
			Sources:   s.sources,
		}
		session, err := s.service.StartDiscovery(ctx, req)
		if err != nil {
			s.log.Error("scheduled discovery failed",
				zap.String("user_id", profile.UserID.String()),
				zap.Error(err))
			continue
		}
		started++
		s.log.Info("scheduled discovery finished",
			zap.String("user_id", profile.UserID.String()),
			zap.String("session_id", session.ID.String()),
			zap.Int("jobs_new", session.JobsNew))
	}

	s.log.Info("scheduled discovery tick complete", zap.Int("sessions", started))
}
