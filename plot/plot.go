// Package plot renders episode totals as an HTML line chart.
package plot

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Series is one opponent's episode totals together with their mean.
type Series struct {
	Name     string
	Episodes []int
	Totals   []int
	Mean     float64
}

func (s Series) Validate() error {
	if len(s.Episodes) != len(s.Totals) {
		return errors.Errorf("%s: %d episodes but %d totals", s.Name, len(s.Episodes), len(s.Totals))
	}

	return nil
}

// Render writes a line chart of the totals, with a horizontal mark line
// at the mean, to w.
func Render(w io.Writer, s Series) error {
	if err := s.Validate(); err != nil {
		return err
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: s.Name}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Game"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Score"}),
	)

	xs := make([]string, len(s.Episodes))
	items := make([]opts.LineData, len(s.Totals))
	for i := range s.Totals {
		xs[i] = strconv.Itoa(s.Episodes[i])
		items[i] = opts.LineData{Value: s.Totals[i]}
	}

	line.SetXAxis(xs).AddSeries("Score", items,
		charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
			Name:  "Mean",
			YAxis: s.Mean,
		}),
	)

	return line.Render(w)
}

// WriteFile renders s into dir, creating dir if needed, and returns
// the name of the file written.
func WriteFile(dir string, s Series) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "creating %v", dir)
	}

	filename := filepath.Join(dir, Slug(s.Name)+".html")
	f, err := os.Create(filename)
	if err != nil {
		return "", err
	}

	if err := Render(f, s); err != nil {
		f.Close()
		return "", errors.Wrapf(err, "rendering %v", filename)
	}

	glog.V(1).Infof("Wrote chart for %s to %v", s.Name, filename)
	return filename, f.Close()
}

// Slug converts a display name into a file name, e.g.
// "Always Rock Strategy" => "always_rock_strategy".
func Slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	return b.String()
}
