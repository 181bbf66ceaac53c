package extract_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/hotscan/internal/domain"
	"github.com/user/hotscan/internal/extract"
	"github.com/user/hotscan/internal/monitoring"
)

const cardClasses = "hot-col-xl-3 hot-col-lg-4 hot-col-md-6 hot-col-sm-12 _py-3"

const fullCard = `
<div class="hot-col-xl-3 hot-col-lg-4 hot-col-md-6 hot-col-sm-12 _py-3">
  <a href="/market/product/violao-completo">
    <img src="https://static.example.net/covers/violao.jpg" alt="cover"/>
    <span class="product-name">Curso de Violão</span>
  </a>
  <p class="_mb-0 _text-3 _text-md-4 _text-green _font-weight-light">R$ 1.234,56</p>
  <p class="_mb-0 _text-1 _text-gray-500">Até R$ 2.469,00</p>
  <span class="_mr-1 _text-1 _text-gray-800">4.8</span>
  <span class="_mr-1 _text-1 _text-gray-800">123°</span>
  <span class="_ml-1 _text-1 _text-gray-500 _font-weight _d-none _d-md-inline">(1.532)</span>
</div>`

const cardWithoutPrice = `
<div class="hot-col-xl-3 hot-col-lg-4 hot-col-md-6 hot-col-sm-12 _py-3">
  <a href="/market/product/sem-preco">
    <span class="product-name">Sem Preço</span>
  </a>
  <p class="_mb-0 _text-1 _text-gray-500">Até R$ 99,90</p>
</div>`

const cardWithGarbageNumbers = `
<div class="hot-col-xl-3 hot-col-lg-4 hot-col-md-6 hot-col-sm-12 _py-3">
  <a href="/market/product/quebrado">
    <span class="product-name">Quebrado</span>
  </a>
  <p class="_mb-0 _text-3 _text-md-4 _text-green _font-weight-light">R$ carregando</p>
  <p class="_mb-0 _text-1 _text-gray-500">Consulte</p>
  <span class="_mr-1 _text-1 _text-gray-800">N/A</span>
  <span class="_mr-1 _text-1 _text-gray-800">quente</span>
  <span class="_ml-1 _text-1 _text-gray-500 _font-weight _d-none _d-md-inline">(em breve)</span>
</div>`

const cardWithNoFields = `
<div class="hot-col-xl-3 hot-col-lg-4 hot-col-md-6 hot-col-sm-12 _py-3">
  <b>promocional</b>
</div>`

func newTestMetrics() *monitoring.Metrics {
	return monitoring.NewMetrics(prometheus.NewRegistry())
}

func newTestExtractor(t *testing.T) *extract.Extractor {
	t.Helper()
	ex, err := extract.NewExtractor(extract.DefaultLocators(), newTestMetrics(), zap.NewNop())
	require.NoError(t, err)
	return ex
}

func cardSelection(t *testing.T, markup string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	card := doc.Find("body > div")
	require.Equal(t, 1, card.Length())
	return card.First()
}

func TestExtractRecordFullCard(t *testing.T) {
	t.Parallel()

	rec := newTestExtractor(t).ExtractRecord(cardSelection(t, fullCard))

	assert.Equal(t, "https://app.hotmart.com/market/product/violao-completo", rec.ProductURL)
	assert.Equal(t, "https://static.example.net/covers/violao.jpg", rec.ImgSrc)
	assert.Equal(t, "Curso de Violão", rec.ProductName)
	assert.Equal(t, "R$", rec.Currency)
	assert.Equal(t, 1234.56, rec.Commission)
	assert.Equal(t, 2469.0, rec.MaxPrice)
	assert.Equal(t, 4.8, rec.CommentRating)
	assert.Equal(t, 123, rec.Temperature)
	assert.Equal(t, 1532, rec.Comments)
	assert.Empty(t, rec.Defaulted)

	for _, field := range domain.ExportColumns {
		assert.True(t, rec.Has(field), "field %s should be populated", field)
	}
}

func TestExtractRecordMissingPriceParagraph(t *testing.T) {
	t.Parallel()

	rec := newTestExtractor(t).ExtractRecord(cardSelection(t, cardWithoutPrice))

	assert.Equal(t, domain.DefaultCurrency, rec.Currency)
	assert.Equal(t, 0.0, rec.Commission)
	assert.True(t, rec.Has(domain.FieldCurrency))
	assert.True(t, rec.Has(domain.FieldCommission))
	assert.Equal(t, 99.9, rec.MaxPrice)
	assert.Empty(t, rec.Defaulted, "a missing element is a default, not a parse failure")
}

func TestExtractRecordPriceWithoutWhitespace(t *testing.T) {
	t.Parallel()

	markup := `
<div class="` + cardClasses + `">
  <p class="_mb-0 _text-3 _text-md-4 _text-green _font-weight-light">1.234,56</p>
</div>`
	rec := newTestExtractor(t).ExtractRecord(cardSelection(t, markup))

	assert.Equal(t, 1234.56, rec.Commission)
	assert.False(t, rec.Has(domain.FieldCurrency), "currency stays unset when the price text has no prefix")
	assert.Empty(t, rec.Currency)
}

func TestExtractRecordRatingSpanVariants(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		spans       string
		rating      float64
		temperature int
	}{
		{name: "no spans", spans: "", rating: 0, temperature: 0},
		{name: "one span", spans: `<span class="_mr-1 _text-1 _text-gray-800">4.5</span>`, rating: 4.5, temperature: 0},
		{
			name: "two spans",
			spans: `<span class="_mr-1 _text-1 _text-gray-800">4.5</span>
				<span class="_mr-1 _text-1 _text-gray-800">87°</span>`,
			rating:      4.5,
			temperature: 87,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			markup := `<div class="` + cardClasses + `"><a href="/market/p">x</a>` + tc.spans + `</div>`
			rec := newTestExtractor(t).ExtractRecord(cardSelection(t, markup))

			assert.Equal(t, tc.rating, rec.CommentRating)
			assert.Equal(t, tc.temperature, rec.Temperature)
			assert.True(t, rec.Has(domain.FieldCommentRating))
			assert.True(t, rec.Has(domain.FieldTemperature))
		})
	}
}

func TestExtractRecordGarbageTextFallsBackPerField(t *testing.T) {
	t.Parallel()

	rec := newTestExtractor(t).ExtractRecord(cardSelection(t, cardWithGarbageNumbers))

	assert.Equal(t, "R$", rec.Currency)
	assert.Equal(t, 0.0, rec.Commission)
	assert.Equal(t, 0.0, rec.MaxPrice)
	assert.Equal(t, 0.0, rec.CommentRating)
	assert.Equal(t, 0, rec.Temperature)
	assert.Equal(t, 0, rec.Comments)

	assert.ElementsMatch(t, []string{
		domain.FieldCommission,
		domain.FieldCommentRating,
		domain.FieldTemperature,
		domain.FieldComments,
	}, rec.Defaulted)
	assert.NotContains(t, rec.Defaulted, domain.FieldMaxPrice,
		"a price text without digits is the documented zero, not a parse failure")
}

func TestExtractRecordCardWithNoFieldsIsEmpty(t *testing.T) {
	t.Parallel()

	rec := newTestExtractor(t).ExtractRecord(cardSelection(t, cardWithNoFields))

	assert.True(t, rec.Empty())
	assert.Empty(t, rec.Fields)
}

func TestExtractRecordLinkResolution(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		href string
		want string
	}{
		{name: "rooted path", href: "/market/product/abc", want: "https://app.hotmart.com/market/product/abc"},
		{name: "bare path", href: "market/product/abc", want: "https://app.hotmart.com/market/product/abc"},
		{name: "already absolute", href: "https://pay.example.com/checkout/9", want: "https://pay.example.com/checkout/9"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			markup := `<div class="` + cardClasses + `"><a href="` + tc.href + `">x</a></div>`
			rec := newTestExtractor(t).ExtractRecord(cardSelection(t, markup))

			assert.Equal(t, tc.want, rec.ProductURL)
		})
	}
}

func TestNewExtractorRejectsUnusableLocators(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*extract.Locators)
	}{
		{name: "no card classes", mutate: func(l *extract.Locators) { l.CardClasses = " " }},
		{name: "no base origin", mutate: func(l *extract.Locators) { l.BaseOrigin = "" }},
		{name: "selector without tag", mutate: func(l *extract.Locators) { l.Rating.Tag = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			locators := extract.DefaultLocators()
			tc.mutate(&locators)

			_, err := extract.NewExtractor(locators, newTestMetrics(), zap.NewNop())
			assert.Error(t, err)
		})
	}
}
