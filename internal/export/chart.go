package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"gonum.org/v1/gonum/stat"

	"github.com/user/hotscan/internal/dataset"
	"github.com/user/hotscan/internal/domain"
)

// orRdColors is the warm ColorBrewer ramp the temperature scale maps onto.
var orRdColors = []string{
	"#fff7ec", "#fee8c8", "#fdd49e", "#fdbb84", "#fc8d59",
	"#ef6548", "#d7301f", "#b30000", "#7f0000",
}

// bucketSymbols distinguishes the integer rating buckets in the legend.
var bucketSymbols = []string{"circle", "triangle", "diamond", "rect", "pin", "roundRect", "arrow"}

const (
	temperatureScaleMax = 150
	maxSymbolSize       = 40
)

// ScatterHTML renders the table's diagnostic scatter chart into an HTML file
// at path.
func ScatterHTML(path string, table *dataset.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := RenderScatter(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// RenderScatter writes the interactive chart document to w. Plotted rows are
// those with a comment rating and a commission above zero; x is the max
// price, y the commission, color follows temperature on a fixed 0-150 scale
// and point size grows with the comment count. Rows group into one series
// per integer rating bucket, and an ordinary-least-squares trend line fitted
// over all plotted rows is overlaid.
func RenderScatter(w io.Writer, table *dataset.Table) error {
	plottable := table.Filter(func(rec domain.Record) bool {
		return rec.CommentRating > 0 && rec.Commission > 0
	})

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeChalk,
			PageTitle: "Commission vs max price",
			Width:     "1200px",
			Height:    "720px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Commission vs max price with trend line",
			Subtitle: "Rows with comment rating and commission above zero. Point size follows the comment count.",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "5%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "max_price", Type: "value", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "commission", Type: "value", Scale: opts.Bool(true)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        temperatureScaleMax,
			Text:       []string{"hot", "cold"},
			InRange:    &opts.VisualMapInRange{Color: orRdColors},
		}),
	)

	buckets := make(map[int][]opts.ScatterData)
	var xs, ys []float64
	for _, rec := range plottable.Records {
		bucket := int(rec.CommentRating)
		buckets[bucket] = append(buckets[bucket], opts.ScatterData{
			Name: rec.ProductName,
			// Temperature sits last so the visual map picks it up as the
			// color dimension.
			Value:      []any{rec.MaxPrice, rec.Commission, rec.Comments, rec.CommentRating, rec.Temperature},
			SymbolSize: symbolSize(rec.Comments),
		})
		xs = append(xs, rec.MaxPrice)
		ys = append(ys, rec.Commission)
	}

	order := make([]int, 0, len(buckets))
	for bucket := range buckets {
		order = append(order, bucket)
	}
	sort.Ints(order)

	trend := trendOpts(xs, ys)
	for i, bucket := range order {
		data := buckets[bucket]
		for j := range data {
			data[j].Symbol = bucketSymbols[i%len(bucketSymbols)]
		}
		var seriesOpts []charts.SeriesOpts
		if i == 0 {
			seriesOpts = trend
		}
		scatter.AddSeries(fmt.Sprintf("rating %d", bucket), data, seriesOpts...)
	}

	return scatter.Render(w)
}

// trendOpts fits commission against max price and draws the fitted segment
// across the observed price range. Fewer than two points, or points stacked
// on one price, yield no line.
func trendOpts(xs, ys []float64) []charts.SeriesOpts {
	if len(xs) < 2 {
		return nil
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	if lo == hi {
		return nil
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) || math.IsNaN(beta) || math.IsInf(beta, 0) {
		return nil
	}

	return []charts.SeriesOpts{
		charts.WithMarkLineNameCoordItemOpts(opts.MarkLineNameCoordItem{
			Name:        "OLS trend",
			Coordinate0: []interface{}{lo, alpha + beta*lo},
			Coordinate1: []interface{}{hi, alpha + beta*hi},
		}),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol:    []string{"none", "none"},
			LineStyle: &opts.LineStyle{Width: 2, Type: "dashed", Color: "#dce1e8"},
		}),
	}
}

// symbolSize maps a comment count onto a readable point size.
func symbolSize(comments int) int {
	if comments < 0 {
		comments = 0
	}
	size := 6 + int(2*math.Sqrt(float64(comments+1)))
	if size > maxSymbolSize {
		return maxSymbolSize
	}
	return size
}
