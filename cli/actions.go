package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"go.viam.com/stemsolvers/components/arm/telescoping"
	"go.viam.com/stemsolvers/config"
	"go.viam.com/stemsolvers/control"
	"go.viam.com/stemsolvers/kinematics"
	"go.viam.com/stemsolvers/logging"
	"go.viam.com/stemsolvers/motionplan"
	"go.viam.com/stemsolvers/render"
)

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// loadConfig reads the config named by the global flag, or the default scene when none is given, and
// returns a logger writing to the app's error writer at the configured level.
func loadConfig(c *cli.Context) (*config.Config, logging.Logger, error) {
	logger := logging.NewBlankLogger("armsim")
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	logger.SetLevel(logging.INFO)
	if c.Bool(debugFlag) {
		logger.SetLevel(logging.DEBUG)
	}

	cfg := config.Default()
	if path := c.String(configFlag); path != "" {
		var err error
		cfg, err = config.Read(path, logger)
		if err != nil {
			return nil, nil, err
		}
	}
	if !c.Bool(debugFlag) {
		logger.SetLevel(cfg.LogLevel)
	}
	logging.ReplaceGlobal(logger)
	return cfg, logger, nil
}

// resolvePose reads a pose given as a preset name or as pivot,wrist,telescope.
func resolvePose(cfg *config.Config, s string) (kinematics.Pose, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		return kinematics.ParsePose(s)
	}
	if pose, ok := cfg.Preset(s); ok {
		return pose, nil
	}
	if pose, ok := cfg.Preset(strings.ToUpper(s)); ok {
		return pose, nil
	}
	return kinematics.Pose{}, errors.Errorf("unknown preset %q, have %v", s, cfg.PresetNames())
}

// scheduledCommand is a pose to command just before a given tick runs.
type scheduledCommand struct {
	Tick int
	Pose kinematics.Pose
	Raw  string
}

func parseScheduledCommand(cfg *config.Config, s string) (scheduledCommand, error) {
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return scheduledCommand{}, errors.Errorf("command %q must be POSE@TICK", s)
	}
	tick, err := strconv.Atoi(strings.TrimSpace(s[at+1:]))
	if err != nil {
		return scheduledCommand{}, errors.Wrapf(err, "bad tick in command %q", s)
	}
	if tick < 1 {
		return scheduledCommand{}, errors.Errorf("tick in command %q must be at least 1", s)
	}
	pose, err := resolvePose(cfg, s[:at])
	if err != nil {
		return scheduledCommand{}, errors.Wrapf(err, "bad pose in command %q", s)
	}
	return scheduledCommand{Tick: tick, Pose: pose, Raw: s}, nil
}

// simulation wires an arm, its handler and a loop together from a config.
type simulation struct {
	cfg     *config.Config
	arm     *telescoping.Arm
	handler *motionplan.TransitionHandler
	loop    *control.Loop
}

func newSimulation(cfg *config.Config, maxTicks int, logger logging.Logger) (*simulation, error) {
	arm, err := telescoping.NewArm(cfg.ArmConfig(), logger.Sublogger("arm"))
	if err != nil {
		return nil, err
	}
	handler := motionplan.NewTransitionHandler(arm, logger.Sublogger("motionplan"))
	loop, err := control.NewLoop(logger.Sublogger("control"), control.Config{Frequency: cfg.TickHz, MaxTicks: int64(maxTicks)}, arm, handler)
	if err != nil {
		return nil, err
	}
	return &simulation{cfg: cfg, arm: arm, handler: handler, loop: loop}, nil
}

// RunAction is the corresponding Action for 'run'.
func RunAction(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	ticks := c.Int(ticksFlag)
	if ticks < 1 {
		return errors.Errorf("--%s must be at least 1", ticksFlag)
	}
	every := c.Int(snapshotEveryFlag)
	if every < 1 {
		return errors.Errorf("--%s must be at least 1", snapshotEveryFlag)
	}

	var commands []scheduledCommand
	for _, s := range c.StringSlice(commandFlag) {
		sc, err := parseScheduledCommand(cfg, s)
		if err != nil {
			return err
		}
		commands = append(commands, sc)
	}
	byTick := lo.GroupBy(commands, func(sc scheduledCommand) int { return sc.Tick })

	sim, err := newSimulation(cfg, ticks, logger)
	if err != nil {
		return err
	}

	queue := func(tick int) {
		for _, sc := range byTick[tick] {
			if err := sim.loop.Command(sc.Pose); err != nil {
				logger.Warnw("dropping command", "command", sc.Raw, "error", err)
			}
		}
	}

	var renderer *render.Renderer
	snapshotDir := c.String(snapshotDirFlag)
	if snapshotDir != "" {
		if err := os.MkdirAll(snapshotDir, 0o750); err != nil {
			return errors.Wrapf(err, "cannot create snapshot dir %q", snapshotDir)
		}
		renderer, err = render.NewRenderer(render.Options{
			Width:     int(cfg.ScreenWidth),
			Height:    int(cfg.ScreenHeight),
			Bounds:    cfg.PermittedBounds,
			DriveBase: cfg.DriveBase.R2(),
			Overlay:   true,
		}, sim.handler.Validator())
		if err != nil {
			return err
		}
	}

	var trajectory render.Trajectory
	rows := table.NewWriter()
	rows.AppendHeader(table.Row{"Tick", "Current", "Target", "Plan", "Valid", "Commands"})

	var saveErr error
	done := make(chan struct{})
	sim.loop.AddObserver(func(snap control.Snapshot) {
		if snap.Tick > int64(ticks) {
			return
		}
		trajectory.Observe(snap)
		interesting := snap.Tick%int64(every) == 0 || len(snap.Commands) > 0 || snap.Tick == int64(ticks)
		if interesting {
			rows.AppendRow(table.Row{
				snap.Tick, snap.Current.Normalized().String(), snap.Target.Normalized().String(),
				snap.Plan.String(), snap.Valid, formatCommands(snap.Commands),
			})
		}
		if renderer != nil && (snap.Tick%int64(every) == 0 || snap.Tick == int64(ticks)) && saveErr == nil {
			path := filepath.Join(snapshotDir, fmt.Sprintf("frame_%06d.png", snap.Tick))
			saveErr = render.SavePNG(renderer.DrawFrame(snap), path)
		}
		queue(int(snap.Tick) + 1)
		if snap.Tick == int64(ticks) {
			close(done)
		}
	})

	queue(1)
	if c.Bool(realtimeFlag) {
		if err := sim.loop.Start(); err != nil {
			return err
		}
		select {
		case <-done:
		case <-c.Context.Done():
		}
		sim.loop.Stop()
	} else {
		sim.loop.Run(ticks)
	}
	if saveErr != nil {
		return saveErr
	}

	if c.Bool(tableFlag) {
		printf(c.App.Writer, "%s", rows.Render())
	}
	if path := c.String(plotFlag); path != "" {
		if err := trajectory.SavePlot(path); err != nil {
			return err
		}
	}

	stats := sim.loop.Stats()
	summary := table.NewWriter()
	summary.AppendHeader(table.Row{"Ticks", "Accepted", "Rejected", "Holds", "Rescues", "Rescue failures", "Final pose", "Reached"})
	summary.AppendRow(table.Row{
		stats.Ticks, stats.Accepted, stats.Rejected, stats.Holds, stats.Rescues, stats.RescueFailures,
		sim.arm.CurrentPose().String(), sim.arm.HasReachedTarget(),
	})
	printf(c.App.Writer, "%s", summary.Render())
	return logger.Sync()
}

func formatCommands(results []control.CommandResult) string {
	parts := lo.Map(results, func(r control.CommandResult, _ int) string {
		verdict := "rejected"
		if r.Accepted {
			verdict = "accepted"
		}
		return fmt.Sprintf("%s %s", r.Pose, verdict)
	})
	return strings.Join(parts, "; ")
}

// CheckAction is the corresponding Action for 'check'.
func CheckAction(c *cli.Context) error {
	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	pose, err := resolvePose(cfg, c.String(poseFlag))
	if err != nil {
		return err
	}
	armConf := cfg.ArmConfig()
	val := motionplan.NewValidator(armConf.Dimensions, armConf.PermittedBounds, armConf.DriveBase)
	report := val.Check(pose)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Point", "X", "Y", "In bounds"})
	mp := report.Points
	for _, p := range []struct {
		name    string
		pt      r2.Point
		checked bool
	}{
		{"pivot base", mp.PivotBase, false},
		{"wrist axel", mp.WristAxel, true},
		{"umbrella bottom left", mp.UmbrellaBottomLeft, true},
		{"umbrella bottom right", mp.UmbrellaBottomRight, true},
		{"umbrella top left", mp.UmbrellaTopLeft, true},
		{"umbrella top right", mp.UmbrellaTopRight, true},
	} {
		in := "-"
		if p.checked {
			in = strconv.FormatBool(cfg.PermittedBounds.Contains(p.pt))
		}
		t.AppendRow(table.Row{p.name, fmt.Sprintf("%.2f", p.pt.X), fmt.Sprintf("%.2f", p.pt.Y), in})
	}

	printf(c.App.Writer, "Pose: %s", pose)
	printf(c.App.Writer, "%s", t.Render())
	if report.Valid {
		printf(c.App.Writer, "Valid: true")
	} else {
		printf(c.App.Writer, "Valid: false (failed: %s)", strings.Join(report.Failed, ", "))
	}
	return nil
}

// PresetsAction is the corresponding Action for 'presets'.
func PresetsAction(c *cli.Context) error {
	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	armConf := cfg.ArmConfig()
	val := motionplan.NewValidator(armConf.Dimensions, armConf.PermittedBounds, armConf.DriveBase)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "Pivot", "Wrist", "Telescope", "Valid", "Failed"})
	for _, name := range cfg.PresetNames() {
		pose := cfg.Presets[name]
		report := val.Check(pose)
		t.AppendRow(table.Row{name, pose.Pivot, pose.Wrist, pose.Telescope, report.Valid, strings.Join(report.Failed, ", ")})
	}
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// ConfigAction is the corresponding Action for 'config'.
func ConfigAction(c *cli.Context) error {
	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", cfg.String())
	return nil
}
