package scheduler

import (
	"time"

	"github.com/khadamati/khadamati-backend/internal/app/service"
	"github.com/khadamati/khadamati-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Pending requests whose scheduled date passed this long ago get
// auto-cancelled by the nightly sweep.
const staleRequestGracePeriod = 48 * time.Hour

// RequestScheduler auto-cancels bookings the provider never answered.
type RequestScheduler struct {
	cron           *cron.Cron
	requestService service.RequestService
}

func NewRequestScheduler(requestService service.RequestService) *RequestScheduler {
	return &RequestScheduler{
		cron:           cron.New(),
		requestService: requestService,
	}
}

// Start registers the nightly sweep at 03:00 and starts the cron loop.
func (s *RequestScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting stale request sweep", nil)

		cancelled, err := s.requestService.ExpireStaleRequests(staleRequestGracePeriod)
		if err != nil {
			logger.Error("Stale request sweep failed", err)
			return
		}

		logger.Info("Stale request sweep finished", map[string]interface{}{
			"cancelled": cancelled,
		})
	})

	if err != nil {
		logger.Error("Failed to register stale request sweep", err)
		return err
	}

	s.cron.Start()
	logger.Info("Request scheduler started (daily at 3:00 AM)", nil)

	return nil
}

func (s *RequestScheduler) Stop() {
	logger.Info("Stopping request scheduler...", nil)
	s.cron.Stop()
	logger.Info("Request scheduler stopped", nil)
}
