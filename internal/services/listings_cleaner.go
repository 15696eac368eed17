package services

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobmatch/internal/events"
	"github.com/maxaizer/jobmatch/internal/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type ListingCleanupRepository interface {
	RemoveExpired(ctx context.Context, now time.Time, staleBefore time.Time) (int64, error)
}

// ListingsCleaner removes expired job listings on a nightly schedule and
// announces removals on the event bus so caches can be invalidated.
type ListingsCleaner struct {
	listings         ListingCleanupRepository
	bus              EventBus.Bus
	cron             *cron.Cron
	expirationInDays int
}

func NewListingsCleaner(listings ListingCleanupRepository, bus EventBus.Bus,
	expirationInDays int) (*ListingsCleaner, error) {

	if expirationInDays <= 0 {
		return nil, errors.New("expiration in days must be greater than zero")
	}

	lc := &ListingsCleaner{
		listings:         listings,
		bus:              bus,
		cron:             cron.New(),
		expirationInDays: expirationInDays,
	}

	_, err := lc.cron.AddFunc("0 3 * * *", lc.cleanExpiredListings)
	if err != nil {
		return nil, err
	}

	lc.cron.Start()
	log.Infof("listings cleaner started, expiration in days: %d", lc.expirationInDays)
	return lc, nil
}

func (lc *ListingsCleaner) Stop() {
	lc.cron.Stop()
}

func (lc *ListingsCleaner) cleanExpiredListings() {

	now := time.Now()
	staleBefore := now.Add(-time.Duration(lc.expirationInDays) * 24 * time.Hour)
	removed, err := lc.listings.RemoveExpired(context.Background(), now, staleBefore)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to clean expired listings: %v", err)
		return
	}

	log.Infof("expired listings cleaned, affected rows: %v", removed)
	if removed > 0 {
		lc.bus.Publish(events.ListingsExpiredTopic, events.ListingsExpired{Removed: removed})
	}
}
