package report

import (
	"fmt"
	"sort"

	"github.com/nfvri/mimo-simulator/pkg/statistics"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	width  = 8 * vg.Inch
	height = 5 * vg.Inch
)

// PlotSweep plots capacity against total transmit power, one line per policy.
// The image format follows the extension of path.
func PlotSweep(powers []float64, capacities map[string][]float64, path string) error {
	if len(powers) == 0 || len(capacities) == 0 {
		return errors.NewInvalid("nothing to plot")
	}

	p := plot.New()
	p.Title.Text = "Capacity versus transmit power"
	p.X.Label.Text = "Total transmit power (W)"
	p.Y.Label.Text = "Aggregate capacity (bit/s/Hz)"

	policies := make([]string, 0, len(capacities))
	for policy := range capacities {
		policies = append(policies, policy)
	}
	sort.Strings(policies)

	for i, policy := range policies {
		values := capacities[policy]
		if len(values) != len(powers) {
			return errors.NewInvalid("policy %s has %d capacities for %d powers", policy, len(values), len(powers))
		}
		pts := make(plotter.XYs, len(powers))
		for j := range powers {
			pts[j].X = powers[j]
			pts[j].Y = values[j]
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		points.Color = plotutil.Color(i)
		p.Add(line, points)
		p.Legend.Add(policy, line, points)
	}

	if err := p.Save(width, height, path); err != nil {
		return err
	}
	log.Infof("Sweep plot saved to %s", path)
	return nil
}

// PlotCDF plots the empirical CDF of the capacities of repeated drops
func PlotCDF(capacities []float64, path string) error {
	if len(capacities) == 0 {
		return errors.NewInvalid("nothing to plot")
	}
	x, probs := statistics.CDF(capacities)
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = probs[i]
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Capacity CDF over %d drops", len(capacities))
	p.X.Label.Text = "Aggregate capacity (bit/s/Hz)"
	p.Y.Label.Text = "P(C <= x)"
	p.Y.Min = 0
	p.Y.Max = 1

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line, plotter.NewGrid())

	if err := p.Save(width, height, path); err != nil {
		return err
	}
	log.Infof("CDF plot saved to %s", path)
	return nil
}

// PlotHistogram plots the distribution of the capacities of repeated drops
func PlotHistogram(capacities []float64, bins int, path string) error {
	if len(capacities) == 0 {
		return errors.NewInvalid("nothing to plot")
	}
	distribution := make(plotter.Values, len(capacities))
	copy(distribution, capacities)

	p := plot.New()
	p.Title.Text = "Capacity distribution"
	p.X.Label.Text = "Aggregate capacity (bit/s/Hz)"
	p.Y.Label.Text = "Frequency"

	h, err := plotter.NewHist(distribution, bins)
	if err != nil {
		return err
	}
	p.Add(h)
	p.Legend.Add("Aggregate capacity", h)

	if err := p.Save(width, height, path); err != nil {
		return err
	}
	log.Infof("Histogram plot saved to %s", path)
	return nil
}
