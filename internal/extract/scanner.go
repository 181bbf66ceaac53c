package extract

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/user/hotscan/internal/domain"
	"github.com/user/hotscan/internal/monitoring"
)

// Scanner locates every listing card in a page snapshot and extracts one
// Record per card.
type Scanner struct {
	extractor *Extractor
	workers   int
	metrics   *monitoring.Metrics
	logger    *zap.Logger
}

// NewScanner builds a Scanner around an Extractor. workers is the number of
// cards extracted concurrently; values below 1 mean sequential.
func NewScanner(extractor *Extractor, workers int, metrics *monitoring.Metrics, logger *zap.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		extractor: extractor,
		workers:   workers,
		metrics:   metrics,
		logger:    logger,
	}
}

// Scan parses markup, finds every element carrying all configured card
// classes and extracts a Record from each, in document order. Cards that
// yield no fields are dropped. Extraction runs on a worker pool when the
// Scanner has more than one worker; results keep document order regardless.
func (s *Scanner) Scan(ctx context.Context, markup string) ([]domain.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	cards := doc.Find(s.extractor.locators.cardSelector())
	total := cards.Length()
	s.metrics.AddCardsScanned(total)
	s.logger.Debug("listing cards located", zap.Int("cards", total))
	if total == 0 {
		return nil, nil
	}

	extracted := make([]domain.Record, total)
	if s.workers > 1 {
		if err := s.scanParallel(ctx, cards, extracted); err != nil {
			return nil, err
		}
	} else {
		cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
			if ctx.Err() != nil {
				return false
			}
			extracted[i] = s.extractor.ExtractRecord(card)
			return true
		})
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	records := make([]domain.Record, 0, total)
	for _, rec := range extracted {
		if rec.Empty() {
			s.metrics.IncCardsSkipped()
			continue
		}
		records = append(records, rec)
	}
	s.metrics.AddRecordsEmitted(len(records))
	return records, nil
}

// scanParallel fans the card indexes out to the worker pool. Every worker
// writes its own slot in out, which preserves document order without a sort.
func (s *Scanner) scanParallel(ctx context.Context, cards *goquery.Selection, out []domain.Record) error {
	workers := s.workers
	if workers > len(out) {
		workers = len(out)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = s.extractor.ExtractRecord(cards.Eq(i))
			}
		}()
	}

feed:
	for i := 0; i < len(out); i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	return ctx.Err()
}
