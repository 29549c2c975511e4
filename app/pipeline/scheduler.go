package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/contenthub/contenthub/app/ai"
)

// Scheduler fires the daily generation run on a fixed wall-clock trigger and
// independently fires ingestion at the top of every hour. The two triggers
// share no state and may overlap in wall-clock time; no overlap guard is
// applied.
type Scheduler struct {
	scraper      ArticleScraper
	generator    *Generator
	dailyHour    int
	dailyMinute  int
	articleCount int
	styles       []ai.Style

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewScheduler creates a recurring scheduler. The daily run fires at
// dailyHour:dailyMinute local time.
func NewScheduler(scraper ArticleScraper, generator *Generator,
	dailyHour, dailyMinute, articleCount int, styles []ai.Style) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		scraper:      scraper,
		generator:    generator,
		dailyHour:    dailyHour,
		dailyMinute:  dailyMinute,
		articleCount: articleCount,
		styles:       styles,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start launches both trigger loops
func (s *Scheduler) Start() {
	slog.Info("Scheduler started",
		"hourly", "scrape at minute 0",
		"daily", time.Date(0, 1, 1, s.dailyHour, s.dailyMinute, 0, 0, time.Local).Format("15:04"))

	s.wg.Add(2)
	go s.loop("hourly scrape", nextHourly, s.hourlyTick)
	go s.loop("daily generation", s.nextDaily, s.dailyTick)
}

// Stop keeps both trigger loops from firing again and waits for them to
// exit. Safe to call more than once. Tick work runs on a context detached
// from the stop cancel, so an in-flight run is never aborted.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
		slog.Info("Scheduler stopped")
	})
}

func (s *Scheduler) loop(name string, next func(time.Time) time.Time, tick func()) {
	defer s.wg.Done()

	for {
		fireAt := next(time.Now())
		timer := time.NewTimer(time.Until(fireAt))
		slog.Debug("Next scheduled run", "trigger", name, "at", fireAt)

		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			slog.Info("Scheduled run triggered", "trigger", name)
			tick()
		}
	}
}

// Ticks run on a fresh background context: s.ctx only gates the timer
// loops, so Stop cannot cancel a run that already started.
func (s *Scheduler) hourlyTick() {
	if _, err := s.scraper.ScrapeAll(context.Background()); err != nil {
		slog.Error("Hourly scraping failed", "error", err)
	}
}

func (s *Scheduler) dailyTick() {
	result := s.generator.GenerateDailyContent(context.Background(), s.articleCount, s.styles)
	if !result.Success {
		slog.Error("Daily generation run failed", "error", result.Error)
	}
}

// nextHourly returns the next top of the hour strictly after now
func nextHourly(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location()).
		Add(time.Hour)
}

// nextDaily returns the next daily trigger time strictly after now
func (s *Scheduler) nextDaily(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.dailyHour, s.dailyMinute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
