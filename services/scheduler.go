// services/scheduler.go
package services

import (
	"log"
	"time"

	"coin-hunt-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartCampaignScheduler flips scheduled campaigns live when their start
// time passes and expires the ones that ran out.
func (s *SponsorService) StartCampaignScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			s.RunCampaignTransitions(time.Now())
		}),
	)
}

// RunCampaignTransitions applies the time-based status changes once.
func (s *SponsorService) RunCampaignTransitions(now time.Time) {
	activated := s.DB.Model(&models.SponsorCampaign{}).
		Where("status = ? AND starts_at IS NOT NULL AND starts_at <= ?", models.CampaignStatusScheduled, now).
		Update("status", models.CampaignStatusActive)
	if activated.Error != nil {
		log.Printf("[Scheduler] DB error activating campaigns: %v", activated.Error)
	} else if activated.RowsAffected > 0 {
		log.Printf("✅ Auto-activated %d campaign(s)", activated.RowsAffected)
	}

	expired := s.DB.Model(&models.SponsorCampaign{}).
		Where("status = ? AND ends_at IS NOT NULL AND ends_at <= ?", models.CampaignStatusActive, now).
		Update("status", models.CampaignStatusExpired)
	if expired.Error != nil {
		log.Printf("[Scheduler] DB error expiring campaigns: %v", expired.Error)
	} else if expired.RowsAffected > 0 {
		log.Printf("✅ Auto-expired %d campaign(s)", expired.RowsAffected)
	}
}
