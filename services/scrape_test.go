package services

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-scraper/config"
	"library-scraper/models"
	"library-scraper/session/sessiontest"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		CatalogURL:  "https://catalog.test/books/",
		OutFile:     filepath.Join(t.TempDir(), "books.csv"),
		WaitTimeout: 50 * time.Millisecond,
	}
}

func bookCard(title, author string, badge bool) *sessiontest.Element {
	card := sessiontest.NewElement("")
	card.WithChild(`h4.text-primary`, sessiontest.NewElement(title))
	if author != "" {
		container := sessiontest.NewElement("Author: " + author)
		icon := sessiontest.NewElement("")
		container.WithChild(`i.fa.fa-user`, icon)
		card.Children[`i.fa.fa-user`] = append(card.Children[`i.fa.fa-user`], icon)
	}
	if badge {
		card.WithChild(`span.badge.badge-secondary.text-white`, sessiontest.NewElement("New"))
	}
	return card
}

func cards(n int) []*sessiontest.Element {
	out := make([]*sessiontest.Element, n)
	for i := range out {
		out[i] = bookCard("Title", "Author", false)
	}
	return out
}

func readRows(t *testing.T, filename string) [][]string {
	t.Helper()
	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

// recordingStore captures every record handed to it.
type recordingStore struct {
	saved []models.Record
	err   error
}

func (s *recordingStore) SaveBook(ctx context.Context, rec models.Record) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, rec)
	return nil
}

// Three pages of five listings each: fifteen records end up in the file and
// the reported count matches.
func TestScrapeAcrossPages(t *testing.T) {
	cfg := testConfig(t)
	sess := sessiontest.NewSession(
		sessiontest.Page{Listings: cards(5), Next: sessiontest.NewElement("»")},
		sessiontest.Page{Listings: cards(5), Next: sessiontest.NewElement("»")},
		sessiontest.Page{Listings: cards(5)},
	)

	count, err := Scrape(context.Background(), sess, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 15, count)
	assert.Equal(t, cfg.CatalogURL, sess.Navigated)

	rows := readRows(t, cfg.OutFile)
	assert.Len(t, rows, 16) // header + 15 records
}

// One page, two cards: the second has only a title and no badge, so its row
// is empty everywhere else with new_release false.
func TestScrapeFillsDefaults(t *testing.T) {
	cfg := testConfig(t)
	sess := sessiontest.NewSession(sessiontest.Page{Listings: []*sessiontest.Element{
		bookCard("Complete Book", "Full Author", true),
		bookCard("Sparse Book", "", false),
	}})

	count, err := Scrape(context.Background(), sess, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rows := readRows(t, cfg.OutFile)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"title", "district", "author", "copy_id", "publication_year",
		"publisher", "call_number", "edition", "new_release",
	}, rows[0])
	assert.Equal(t, []string{"Complete Book", "", "Full Author", "", "", "", "", "", "true"}, rows[1])
	assert.Equal(t, []string{"Sparse Book", "", "", "", "", "", "", "", "false"}, rows[2])
}

// Records stream into the store as they are written.
func TestScrapePersistsToStore(t *testing.T) {
	cfg := testConfig(t)
	store := &recordingStore{}
	sess := sessiontest.NewSession(sessiontest.Page{Listings: cards(3)})

	count, err := Scrape(context.Background(), sess, cfg, store)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, store.saved, 3)
	assert.Equal(t, "Title", store.saved[0]["title"])
}

// A page whose listings never appear fails the run; rows already written
// stay on disk.
func TestScrapeFailsOnListingsTimeout(t *testing.T) {
	cfg := testConfig(t)
	sess := sessiontest.NewSession(
		sessiontest.Page{Listings: cards(4), Next: sessiontest.NewElement("»")},
		sessiontest.Page{}, // page 2 never shows any listings
	)

	count, err := Scrape(context.Background(), sess, cfg, nil)
	require.Error(t, err)
	assert.Equal(t, 4, count)

	rows := readRows(t, cfg.OutFile)
	assert.Len(t, rows, 5) // header + page 1's records survived
}

func TestScrapeFailsOnStoreError(t *testing.T) {
	cfg := testConfig(t)
	boom := errors.New("db down")
	sess := sessiontest.NewSession(sessiontest.Page{Listings: cards(2)})

	_, err := Scrape(context.Background(), sess, cfg, &recordingStore{err: boom})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
