// Package chart renders the hourly stacked-bar chart to a PDF for offline
// sharing, mirroring what the dashboard page draws in the browser.
package chart

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/danwashburn/truck-parking-dashboard/internal/hourly"
)

const (
	pageWidth  = 11 * vg.Inch
	pageHeight = 8.5 * vg.Inch
)

var (
	designatedBlue    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	undesignatedAmber = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	supplyGray        = color.RGBA{R: 90, G: 90, B: 90, A: 255}
)

// RenderPDF draws the stacked hourly demand chart (Designated on the bottom,
// Undesignated stacked on top, supply as a horizontal line) to a one-page PDF.
func RenderPDF(path, title string, rows []hourly.Row) error {
	p, err := buildPlot(title, rows)
	if err != nil {
		return err
	}

	c := vgpdf.New(pageWidth, pageHeight)
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func buildPlot(title string, rows []hourly.Row) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Hour of day"
	p.Y.Label.Text = "Demand (truck-hours)"

	des := make(plotter.Values, len(rows))
	undes := make(plotter.Values, len(rows))
	labels := make([]string, len(rows))
	for i, r := range rows {
		des[i] = r.DesDemand
		undes[i] = r.UndesDemand
		labels[i] = fmt.Sprintf("%d", r.Hour)
	}

	barWidth := vg.Points(12)

	desBars, err := plotter.NewBarChart(des, barWidth)
	if err != nil {
		return nil, err
	}
	desBars.Color = designatedBlue
	desBars.LineStyle.Width = 0

	undesBars, err := plotter.NewBarChart(undes, barWidth)
	if err != nil {
		return nil, err
	}
	undesBars.Color = undesignatedAmber
	undesBars.LineStyle.Width = 0
	undesBars.StackOn(desBars)

	p.Add(desBars, undesBars)
	p.Legend.Add("Designated", desBars)
	p.Legend.Add("Undesignated", undesBars)

	if len(rows) > 0 {
		supplyPts := make(plotter.XYs, len(rows))
		for i, r := range rows {
			supplyPts[i].X = float64(i)
			supplyPts[i].Y = r.Supply
		}
		supplyLine, err := plotter.NewLine(supplyPts)
		if err != nil {
			return nil, err
		}
		supplyLine.LineStyle.Width = vg.Points(1.5)
		supplyLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		supplyLine.LineStyle.Color = supplyGray
		p.Add(supplyLine)
		p.Legend.Add("Supply", supplyLine)
	}

	p.Legend.Top = true
	p.NominalX(labels...)
	return p, nil
}
