package extract

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/user/hotscan/internal/domain"
	"github.com/user/hotscan/internal/monitoring"
	"github.com/user/hotscan/internal/numparse"
)

var (
	temperatureStrip = []string{"°"}
	commentStrip     = []string{"(", ")", "."}
)

// Extractor reads single listing cards into Records according to a locator
// table.
type Extractor struct {
	locators Locators
	base     *url.URL
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewExtractor validates the locator table and prepares an Extractor bound
// to it.
func NewExtractor(locators Locators, metrics *monitoring.Metrics, logger *zap.Logger) (*Extractor, error) {
	if err := locators.Validate(); err != nil {
		return nil, err
	}
	base, err := url.Parse(locators.BaseOrigin)
	if err != nil {
		return nil, fmt.Errorf("parse base origin: %w", err)
	}
	return &Extractor{
		locators: locators,
		base:     base,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// ExtractRecord reads one listing card into a Record. It never fails: a
// field whose raw text does not parse keeps its documented default and is
// listed in Record.Defaulted. A card with no recognized child elements at
// all yields an empty Record.
func (e *Extractor) ExtractRecord(card *goquery.Selection) domain.Record {
	rec := domain.Record{}
	found := 0

	if href, ok := card.Find("a").First().Attr("href"); ok {
		rec.ProductURL = e.absoluteURL(href)
		rec.Fields = append(rec.Fields, domain.FieldProductURL)
		found++
	}

	if src, ok := card.Find("img").First().Attr("src"); ok {
		rec.ImgSrc = src
		rec.Fields = append(rec.Fields, domain.FieldImgSrc)
		found++
	}

	if name := card.Find(e.locators.ProductName.css()); name.Length() > 0 {
		rec.ProductName = name.First().Text()
		rec.Fields = append(rec.Fields, domain.FieldProductName)
		found++
	}

	// The price text splits on its first whitespace run into currency and
	// amount; text without whitespace is all amount and leaves the currency
	// unset. The " " placeholder applies only when the paragraph itself is
	// missing.
	if p := card.Find(e.locators.Price.css()); p.Length() > 0 {
		found++
		amount := strings.TrimSpace(p.First().Text())
		if head, rest, ok := splitOnce(amount); ok {
			rec.Currency = head
			rec.Fields = append(rec.Fields, domain.FieldCurrency)
			amount = rest
		}
		value, err := numparse.LocaleDecimal(amount)
		if err != nil {
			e.fallback(&rec, domain.FieldCommission, err)
		}
		rec.Commission = value
	} else {
		rec.Currency = domain.DefaultCurrency
		rec.Fields = append(rec.Fields, domain.FieldCurrency)
	}
	rec.Fields = append(rec.Fields, domain.FieldCommission)

	if p := card.Find(e.locators.MaxPrice.css()); p.Length() > 0 {
		found++
		value, err := numparse.FirstNumericToken(strings.TrimSpace(p.First().Text()))
		if err != nil {
			e.fallback(&rec, domain.FieldMaxPrice, err)
		}
		rec.MaxPrice = value
	}
	rec.Fields = append(rec.Fields, domain.FieldMaxPrice)

	// The rating spans double up: the first carries the comment rating as
	// plain dot-decimal text, the second the temperature with a trailing
	// degree mark.
	if spans := card.Find(e.locators.Rating.css()); spans.Length() > 0 {
		found++
		raw := strings.TrimSpace(spans.First().Text())
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			e.fallback(&rec, domain.FieldCommentRating, fmt.Errorf("comment rating %q: %w", raw, err))
			value = 0
		}
		rec.CommentRating = value

		if spans.Length() > 1 {
			temp, err := numparse.DecoratedInt(spans.Eq(1).Text(), temperatureStrip)
			if err != nil {
				e.fallback(&rec, domain.FieldTemperature, err)
			}
			rec.Temperature = temp
		}
	}
	rec.Fields = append(rec.Fields, domain.FieldCommentRating, domain.FieldTemperature)

	if span := card.Find(e.locators.CommentCount.css()); span.Length() > 0 {
		found++
		count, err := numparse.DecoratedInt(span.First().Text(), commentStrip)
		if err != nil {
			e.fallback(&rec, domain.FieldComments, err)
		}
		rec.Comments = count
	}
	rec.Fields = append(rec.Fields, domain.FieldComments)

	if found == 0 {
		return domain.Record{}
	}
	return rec
}

// absoluteURL resolves href against the configured base origin, keeping
// already-absolute links intact.
func (e *Extractor) absoluteURL(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return e.locators.BaseOrigin + href
	}
	return e.base.ResolveReference(ref).String()
}

func (e *Extractor) fallback(rec *domain.Record, field string, err error) {
	rec.Defaulted = append(rec.Defaulted, field)
	e.metrics.IncFieldDefault(field)
	e.logger.Debug("field fell back to its default",
		zap.String("field", field),
		zap.Error(err),
	)
}

// splitOnce splits text on its first run of whitespace, so "R$  1.234,56"
// yields ("R$", "1.234,56", true). Text without whitespace comes back whole
// with found == false.
func splitOnce(text string) (head, rest string, found bool) {
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return text, "", false
	}
	return text[:i], strings.TrimLeftFunc(text[i:], unicode.IsSpace), true
}
