package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService schedules the background payment reconciliation sweep.
// PENDING orders whose checkout was abandoned are re-verified against the
// gateway so they settle to EXPIRED/FAILED without operator action.
type CronService struct {
	paymentService *PaymentService
	scheduler      *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(paymentService *PaymentService) *CronService {
	return &CronService{
		paymentService: paymentService,
		scheduler:      cron.New(),
	}
}

// Start registers the jobs and launches the scheduler
func (s *CronService) Start() {
	// Stale-order sweep every 10 minutes: orders PENDING for over 30
	// minutes, at most 100 per pass.
	s.scheduler.AddFunc("*/10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		settled := s.paymentService.ReconcileStalePending(ctx, 30, 100)
		if settled > 0 {
			log.Printf("payment sweep: settled %d stale orders", settled)
		}
	})

	s.scheduler.Start()
	log.Println("cron service started")
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *CronService) Stop() {
	ctx := s.scheduler.Stop()
	<-ctx.Done()
	log.Println("cron service stopped")
}
