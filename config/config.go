// Package config defines the arm simulator's configuration file.
package config

import (
	"fmt"
	"sort"

	"github.com/golang/geo/r2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/stemsolvers/components/arm/telescoping"
	"go.viam.com/stemsolvers/kinematics"
	"go.viam.com/stemsolvers/logging"
	"go.viam.com/stemsolvers/spatialmath"
	"go.viam.com/stemsolvers/utils"
)

// Point is a JSON friendly 2D point in the Y-up frame.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a JSON friendly rectangle whose lower-left corner is (X, Y) in the Y-up frame.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// R2 converts the rectangle for geometry use.
func (r Rect) R2() r2.Rect {
	return spatialmath.NewRect(r.X, r.Y, r.Width, r.Height)
}

// Config is the full description of one simulated arm and the scene around it.
type Config struct {
	ConfigFilePath string `json:"-"`

	ScreenWidth  float64 `json:"screen_width"`
	ScreenHeight float64 `json:"screen_height"`

	PivotOrigin       Point   `json:"pivot_origin"`
	UmbrellaLength    float64 `json:"umbrella_length"`
	UmbrellaHeight    float64 `json:"umbrella_height"`
	WristOffsetLength float64 `json:"wrist_offset_length"`

	PermittedBounds kinematics.Bounds `json:"permitted_bounds"`
	DriveBase       Rect              `json:"drive_base"`

	Speeds      telescoping.Rates `json:"speeds"`
	InitialPose kinematics.Pose   `json:"initial_pose"`
	TickHz      float64           `json:"tick_hz"`
	LogLevel    logging.Level     `json:"log_level"`

	// Presets are named poses that can be commanded by name.
	Presets map[string]kinematics.Pose `json:"presets"`
}

// Default returns the configuration of the stock scene: an 800x500 field with the arm mounted on the
// left end of the drive base.
func Default() *Config {
	return &Config{
		ScreenWidth:  800,
		ScreenHeight: 500,

		PivotOrigin:       Point{X: 150, Y: 82.5},
		UmbrellaLength:    100,
		UmbrellaHeight:    50,
		WristOffsetLength: 10,

		PermittedBounds: kinematics.Bounds{BackWallX: 20, FrontWallX: 780, FloorY: 0, RoofY: 480},
		DriveBase:       Rect{X: 100, Y: 20, Width: 400, Height: 55},

		Speeds:      telescoping.Rates{Pivot: 2, Wrist: 3, Telescope: 5},
		InitialPose: kinematics.NewPose(0, 50, 400),
		TickHz:      60,
		LogLevel:    logging.INFO,

		Presets: map[string]kinematics.Pose{
			"A": kinematics.NewPose(100, 30, 200),
			"D": kinematics.NewPose(20, 50, 400),
			"E": kinematics.NewPose(-30, -30, 400),
			"S": kinematics.NewPose(30, 90, 150),
			"W": kinematics.NewPose(0, 50, 400),
		},
	}
}

// ArmConfig extracts the arm's static configuration.
func (c *Config) ArmConfig() telescoping.Config {
	return telescoping.Config{
		Dimensions: kinematics.Dimensions{
			UmbrellaLength:    c.UmbrellaLength,
			UmbrellaHeight:    c.UmbrellaHeight,
			WristOffsetLength: c.WristOffsetLength,
			PivotOrigin:       r2.Point{X: c.PivotOrigin.X, Y: c.PivotOrigin.Y},
		},
		PermittedBounds: c.PermittedBounds,
		DriveBase:       c.DriveBase.R2(),
		Rates:           c.Speeds,
		InitialPose:     c.InitialPose,
	}
}

// Validate ensures all parts of the config are valid. Every problem found is reported.
func (c *Config) Validate() error {
	armConf := c.ArmConfig()
	err := armConf.Validate()

	if !(c.ScreenWidth > 0) || !(c.ScreenHeight > 0) {
		err = multierr.Append(err, errors.Errorf("screen size must be positive, got %vx%v", c.ScreenWidth, c.ScreenHeight))
	}
	if !utils.IsFinite(c.TickHz) || c.TickHz <= 0 {
		err = multierr.Append(err, errors.Errorf("tick_hz must be positive, got %v", c.TickHz))
	}
	for _, name := range c.PresetNames() {
		if name == "" {
			err = multierr.Append(err, errors.New("preset names must not be empty"))
			continue
		}
		pose := c.Presets[name]
		for _, axis := range kinematics.Axes {
			if !utils.IsFinite(pose.Get(axis)) {
				err = multierr.Append(err, errors.Errorf("preset %q %s must be finite", name, axis))
			}
		}
	}
	return err
}

// PresetNames returns the preset names in sorted order.
func (c *Config) PresetNames() []string {
	names := lo.Keys(c.Presets)
	sort.Strings(names)
	return names
}

// Preset looks up a preset by name.
func (c *Config) Preset(name string) (kinematics.Pose, bool) {
	pose, ok := c.Presets[name]
	return pose, ok
}

// ScreenFrame returns the raster frame snapshots are drawn in.
func (c *Config) ScreenFrame() spatialmath.ScreenFrame {
	return spatialmath.ScreenFrame{Height: c.ScreenHeight}
}

// String prints out a table of the arm's settings.
func (c *Config) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Setting", "Value"})
	t.AppendRows([]table.Row{
		{"Screen", fmt.Sprintf("%.0fx%.0f", c.ScreenWidth, c.ScreenHeight)},
		{"Pivot origin", fmt.Sprintf("X:%.1f, Y:%.1f", c.PivotOrigin.X, c.PivotOrigin.Y)},
		{"Umbrella", fmt.Sprintf("L:%.1f, H:%.1f, Offset:%.1f", c.UmbrellaLength, c.UmbrellaHeight, c.WristOffsetLength)},
		{"Bounds", fmt.Sprintf(
			"Back:%.1f, Front:%.1f, Floor:%.1f, Roof:%.1f",
			c.PermittedBounds.BackWallX, c.PermittedBounds.FrontWallX, c.PermittedBounds.FloorY, c.PermittedBounds.RoofY,
		)},
		{"Drive base", fmt.Sprintf("X:%.1f, Y:%.1f, W:%.1f, H:%.1f", c.DriveBase.X, c.DriveBase.Y, c.DriveBase.Width, c.DriveBase.Height)},
		{"Speeds", fmt.Sprintf("Pivot:%.2f°, Wrist:%.2f°, Telescope:%.2f", c.Speeds.Pivot, c.Speeds.Wrist, c.Speeds.Telescope)},
		{"Initial pose", c.InitialPose.String()},
		{"Tick rate", fmt.Sprintf("%.1f Hz", c.TickHz)},
		{"Presets", len(c.Presets)},
	})
	return t.Render()
}
