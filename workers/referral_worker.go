// workers/referral_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"coin-hunt-system/models"
	"coin-hunt-system/services"

	"gorm.io/gorm"
)

const referralBatchSize = 50

// ReferralWorker drains pending referral claims into the settlement
// engine. Failed settlements stay pending and are retried on later
// ticks; the engine's replay guard makes reprocessing idempotent.
type ReferralWorker struct {
	db         *gorm.DB
	settlement *services.ReferralSettlementService
	interval   time.Duration
}

func NewReferralWorker(db *gorm.DB, settlement *services.ReferralSettlementService, interval time.Duration) *ReferralWorker {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &ReferralWorker{
		db:         db,
		settlement: settlement,
		interval:   interval,
	}
}

func (w *ReferralWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Referral Worker (pending referral claims → settlement engine)…")
	go w.run(ctx)
}

func (w *ReferralWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.DrainOnce(); err != nil {
				log.Printf("❌ Referral batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Referral Worker stopped")
			return
		}
	}
}

// DrainOnce settles one batch of pending referral claims, oldest first.
func (w *ReferralWorker) DrainOnce() (int, error) {
	var claims []models.ReferralClaim
	if err := w.db.
		Where("status = ?", models.ClaimStatusPending).
		Order("created_at ASC").
		Limit(referralBatchSize).
		Find(&claims).Error; err != nil {
		return 0, err
	}

	settled := 0
	for i := range claims {
		if err := w.settlement.ProcessReferralClaim(&claims[i]); err != nil {
			// Left pending on purpose: safe to reprocess once the
			// store recovers.
			log.Printf("⚠️ Referral claim %s unresolved: %v", claims[i].ID, err)
			continue
		}
		settled++
	}

	if settled > 0 {
		log.Printf("📥 Settlement engine resolved %d of %d referral claim(s)", settled, len(claims))
	}
	return settled, nil
}
