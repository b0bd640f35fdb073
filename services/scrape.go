package services

import (
	"context"
	"fmt"

	"library-scraper/config"
	"library-scraper/logger"
	"library-scraper/models"
	"library-scraper/scraper"
	"library-scraper/session"
	"library-scraper/storage"
	"library-scraper/utils"
)

// BookStore receives each record as it streams past. *storage.PostgresStore
// implements it; a nil store disables persistence.
type BookStore interface {
	SaveBook(ctx context.Context, rec models.Record) error
}

// Scrape walks every catalog page in sess, extracts one record per listing
// and streams the records into cfg.OutFile (and store, when provided). The
// caller owns the session; any fatal error from the walker, extractor or
// sink is returned unmodified after whatever rows were already flushed.
func Scrape(ctx context.Context, sess session.Session, cfg config.Config, store BookStore) (int, error) {
	log := logger.ForScraper()

	if err := sess.Navigate(cfg.CatalogURL); err != nil {
		return 0, fmt.Errorf("open catalog: %w", err)
	}

	walker := scraper.NewWalker(sess, cfg.WaitTimeout)
	stats := utils.NewRunningStats()

	stream := func() (models.Record, bool, error) {
		el, ok, err := walker.Next()
		if err != nil || !ok {
			return nil, false, err
		}
		rec, err := scraper.Extract(el, scraper.BookLocators)
		if err != nil {
			return nil, false, err
		}
		stats.Add(rec)
		if store != nil {
			if err := store.SaveBook(ctx, rec); err != nil {
				return nil, false, err
			}
		}
		return rec, true, nil
	}

	count, err := storage.WriteCSV(cfg.OutFile, scraper.BookLocators.Schema(), stream)
	if err != nil {
		return count, err
	}

	log.Info().
		Int("books", stats.Total).
		Int("new_releases", stats.NewReleases).
		Str("out_file", cfg.OutFile).
		Msg("scrape finished")
	for _, dc := range stats.PerDistrict() {
		log.Info().Str("district", dc.District).Int("books", dc.Count).Msg("district tally")
	}

	return count, nil
}
