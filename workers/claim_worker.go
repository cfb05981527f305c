// workers/claim_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"coin-hunt-system/models"
	"coin-hunt-system/services"

	"gorm.io/gorm"
)

const claimBatchSize = 50

// ClaimWorker drains the pending claim outbox and hands each record to
// the ledger engine. Delivery is at-least-once: a crash mid-batch leaves
// claims pending and the next tick picks them up again, which is safe
// because the engine short-circuits on already-verified claims.
type ClaimWorker struct {
	db       *gorm.DB
	ledger   *services.LedgerService
	interval time.Duration
}

func NewClaimWorker(db *gorm.DB, ledger *services.LedgerService, interval time.Duration) *ClaimWorker {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &ClaimWorker{
		db:       db,
		ledger:   ledger,
		interval: interval,
	}
}

func (w *ClaimWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Claim Worker (pending claims → ledger engine)…")
	go w.run(ctx)
}

func (w *ClaimWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.DrainOnce(); err != nil {
				log.Printf("❌ Claim batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Claim Worker stopped")
			return
		}
	}
}

// DrainOnce processes one batch of pending claims, oldest first.
// A single claim's failure is isolated: the engine parks it in error
// status and the batch moves on.
func (w *ClaimWorker) DrainOnce() (int, error) {
	var claims []models.Claim
	if err := w.db.
		Where("status = ?", models.ClaimStatusPending).
		Order("created_at ASC").
		Limit(claimBatchSize).
		Find(&claims).Error; err != nil {
		return 0, err
	}

	processed := 0
	for i := range claims {
		if err := w.ledger.ProcessClaim(&claims[i]); err != nil {
			log.Printf("⚠️ Claim %s rejected: %v", claims[i].ID, err)
			continue
		}
		processed++
	}

	if processed > 0 {
		log.Printf("📥 Ledger engine verified %d of %d claim(s)", processed, len(claims))
	}
	return processed, nil
}
