package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/stationmap/weather-proxy/internal/store"
)

// Reporter periodically logs the response cache counters. It only reads the
// cache; eviction stays lazy, on the request path.
type Reporter struct {
	scheduler *gocron.Scheduler
	cache     *store.ResponseCache
	interval  time.Duration
}

// New creates a Reporter for the given cache.
func New(cache *store.ResponseCache, interval time.Duration) *Reporter {
	return &Reporter{
		scheduler: gocron.NewScheduler(time.UTC),
		cache:     cache,
		interval:  interval,
	}
}

// Start schedules the periodic stats job and starts the underlying scheduler.
func (r *Reporter) Start() error {
	minutes := int(r.interval.Minutes())
	if minutes <= 0 {
		minutes = 5
	}

	_, err := r.scheduler.Every(minutes).Minutes().Do(func() {
		s := r.cache.Stats()
		log.Printf("cache: entries=%d hits=%d misses=%d evictions=%d",
			s.Entries, s.Hits, s.Misses, s.Evictions)
	})
	if err != nil {
		return err
	}

	r.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (r *Reporter) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}
