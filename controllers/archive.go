package controllers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crashpilot/models"
	"crashpilot/utils/logger"
	"crashpilot/wallet"
)

// MongoArchive writes round records to the rounds collection and history
// entries to the history collection. A single worker goroutine drains the
// queue, so the engine's tick loop never touches Mongo and the open record
// for a round can never land after its settled record.
type MongoArchive struct {
	records chan models.RoundRecord
	write   func(models.RoundRecord)
}

func NewMongoArchive() *MongoArchive {
	a := &MongoArchive{records: make(chan models.RoundRecord, 64)}
	a.write = a.persist
	go a.worker()
	return a
}

func (a *MongoArchive) RoundOpened(rec models.RoundRecord) {
	a.enqueue(rec)
}

func (a *MongoArchive) RoundClosed(rec models.RoundRecord) {
	a.enqueue(rec)
}

func (a *MongoArchive) enqueue(rec models.RoundRecord) {
	select {
	case a.records <- rec:
	default:
		logger.Errorf("archive queue full, dropping record for round %d", rec.Round.ID)
	}
}

func (a *MongoArchive) worker() {
	for rec := range a.records {
		a.write(rec)
	}
}

func (a *MongoArchive) persist(rec models.RoundRecord) {
	a.upsert(rec)
	if rec.Settled && !rec.Voided {
		a.appendHistory(rec)
	}
}

func (a *MongoArchive) upsert(rec models.RoundRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := RoundsCollection.ReplaceOne(ctx,
		bson.M{"round.id": rec.Round.ID},
		rec,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		logger.Errorf("archive write failed for round %d: %v", rec.Round.ID, err)
	}
}

func (a *MongoArchive) appendHistory(rec models.RoundRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	entry := models.HistoryEntry{
		ID:              rec.Round.ID,
		CrashMultiplier: rec.Round.CrashMultiplier,
		SeedHash:        rec.Round.SeedHash,
		ServerSeed:      rec.Round.ServerSeed,
		CrashedAt:       rec.Round.CrashedAt,
	}
	if _, err := HistoryCollection.InsertOne(ctx, entry); err != nil {
		logger.Errorf("history write failed for round %d: %v", rec.Round.ID, err)
	}
}

// ReconcileInterrupted voids rounds left unsettled by a crash or restart:
// every bet still active gets its stake back. Refunds reuse the bet id as
// the credit ref, so replaying reconciliation cannot pay twice.
func ReconcileInterrupted(ctx context.Context, w wallet.Wallet) error {
	cursor, err := RoundsCollection.Find(ctx, bson.M{"settled": false})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var records []models.RoundRecord
	if err := cursor.All(ctx, &records); err != nil {
		return err
	}
	for _, rec := range records {
		refunded := 0
		for i := range rec.Bets {
			b := &rec.Bets[i]
			if b.Status != models.BetActive {
				continue
			}
			if err := w.Credit(ctx, b.PlayerID, b.ID, b.Stake); err != nil {
				logger.Errorf("refund failed for bet %s in round %d: %v", b.ID, rec.Round.ID, err)
				continue
			}
			b.Status = models.BetRefunded
			b.Payout = b.Stake
			b.SettledAt = time.Now()
			refunded++
		}
		rec.Settled = true
		rec.Voided = true
		rec.SavedAt = time.Now()
		if _, err := RoundsCollection.ReplaceOne(ctx, bson.M{"round.id": rec.Round.ID}, rec); err != nil {
			logger.Errorf("reconcile write failed for round %d: %v", rec.Round.ID, err)
			continue
		}
		logger.Infof("voided interrupted round %d, refunded %d bets", rec.Round.ID, refunded)
	}
	return nil
}
