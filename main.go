package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"library-scraper/config"
	"library-scraper/logger"
	"library-scraper/services"
	"library-scraper/session"
	"library-scraper/storage"
	"library-scraper/utils"
)

func main() {
	godotenv.Load()
	logger.Init()

	cfg := config.Load()
	log := logger.Default

	log.Info().
		Str("catalog", cfg.CatalogURL).
		Str("out_file", cfg.OutFile).
		Dur("wait_timeout", cfg.WaitTimeout).
		Bool("headless", cfg.Headless).
		Bool("db_enabled", cfg.DBEnabled).
		Msg("starting library scraper")

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("scrape failed")
		os.Exit(1)
	}
}

// run owns every resource for one scrape: the browser session and, when
// enabled, the Postgres store. Deferred teardown covers all exit paths, so
// a fatal walker or extractor error never leaks a browser process.
func run(cfg config.Config) error {
	allocCtx, cancelAlloc := utils.NewAllocator(context.Background(), cfg)
	defer cancelAlloc()

	sess, cancelTab, err := session.NewChrome(allocCtx)
	if err != nil {
		return err
	}
	defer cancelTab()
	defer sess.Close()

	var store services.BookStore
	if cfg.DBEnabled {
		pg, err := storage.NewPostgresStore(cfg)
		if err != nil {
			return err
		}
		defer pg.Close()
		store = pg
	}

	total, err := services.Scrape(context.Background(), sess, cfg, store)
	if err != nil {
		return err
	}

	fmt.Printf("Total books scraped: %d\n", total)
	return nil
}
