package render

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"go.viam.com/stemsolvers/control"
	"go.viam.com/stemsolvers/kinematics"
)

// Trajectory collects snapshots for plotting axis values over time.
type Trajectory struct {
	snaps []control.Snapshot
}

// Observe records a snapshot. It can be registered directly as a loop observer.
func (tr *Trajectory) Observe(snap control.Snapshot) {
	tr.snaps = append(tr.snaps, snap)
}

// Len returns how many snapshots were recorded.
func (tr *Trajectory) Len() int {
	return len(tr.snaps)
}

// Plot builds a chart of every axis of the current pose against the tick number.
func (tr *Trajectory) Plot() (*plot.Plot, error) {
	if len(tr.snaps) == 0 {
		return nil, errors.New("no snapshots to plot")
	}
	p := plot.New()
	p.Title.Text = "Arm trajectory"
	p.X.Label.Text = "tick"
	p.Y.Label.Text = "degrees / length"

	args := make([]interface{}, 0, 2*len(kinematics.Axes))
	for _, axis := range kinematics.Axes {
		pts := make(plotter.XYs, len(tr.snaps))
		for i, s := range tr.snaps {
			pts[i].X = float64(s.Tick)
			pts[i].Y = s.Current.Get(axis)
		}
		args = append(args, axis.String(), pts)
	}
	if err := plotutil.AddLines(p, args...); err != nil {
		return nil, err
	}
	return p, nil
}

// SavePlot writes the trajectory chart to a file. The format follows the file extension.
func (tr *Trajectory) SavePlot(path string) error {
	p, err := tr.Plot()
	if err != nil {
		return err
	}
	return errors.Wrapf(p.Save(8*vg.Inch, 4*vg.Inch, path), "failed to save %q", path)
}
