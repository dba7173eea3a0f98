package pipeline

import (
	gonumplot "gonum.org/v1/plot"

	"github.com/Veraticus/aneurisk/internal/model"
)

type plotPlot = gonumplot.Plot

// Chart describes one standard chart of a run.
type Chart struct {
	Column string
	By     string
	Box    bool
}

// Name is the chart's file name without extension.
func (c Chart) Name() string {
	kind := "hist"
	if c.Box {
		kind = "box"
	}
	name := kind + "_" + c.Column
	if c.By != "" {
		name += "_by_" + c.By
	}
	return name
}

// StandardCharts are rendered by every run whose data carries the columns.
// The score histogram is drawn from the report's score comparison.
var StandardCharts = []Chart{
	{Column: model.ColDmax, By: model.ColStatus},
	{Column: model.ColAge},
	{Column: model.ColDmax, By: model.ColSite, Box: true},
	{Column: model.ColAR, By: model.ColStatus, Box: true},
}
