package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.viam.com/stemsolvers/config"
	"go.viam.com/stemsolvers/kinematics"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run(append([]string{"armsim"}, args...))
	return out.String(), errOut.String(), err
}

func TestResolvePose(t *testing.T) {
	cfg := config.Default()

	pose, err := resolvePose(cfg, "W")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose, test.ShouldResemble, kinematics.NewPose(0, 50, 400))

	pose, err = resolvePose(cfg, " a ")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose, test.ShouldResemble, kinematics.NewPose(100, 30, 200))

	pose, err = resolvePose(cfg, "1,2,3")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose, test.ShouldResemble, kinematics.NewPose(1, 2, 3))

	_, err = resolvePose(cfg, "Q")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown preset")
}

func TestParseScheduledCommand(t *testing.T) {
	cfg := config.Default()

	sc, err := parseScheduledCommand(cfg, "D@12")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sc.Tick, test.ShouldEqual, 12)
	test.That(t, sc.Pose, test.ShouldResemble, kinematics.NewPose(20, 50, 400))

	sc, err = parseScheduledCommand(cfg, "10,-20,300@1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sc.Pose, test.ShouldResemble, kinematics.NewPose(10, -20, 300))

	for _, bad := range []string{"D", "D@x", "D@0", "Q@3", "1,2@3"} {
		_, err = parseScheduledCommand(cfg, bad)
		test.That(t, err, test.ShouldNotBeNil)
	}
}

func TestPresetsAction(t *testing.T) {
	out, _, err := runApp(t, "presets")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "NAME")
	test.That(t, out, test.ShouldContainSubstring, "permitted_bounds")
	for _, name := range []string{"A", "D", "E", "S", "W"} {
		test.That(t, out, test.ShouldContainSubstring, "| "+name+" ")
	}
}

func TestCheckAction(t *testing.T) {
	out, _, err := runApp(t, "check", "--pose", "30,50,200")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "wrist axel")
	test.That(t, out, test.ShouldContainSubstring, "Valid: true")

	out, _, err = runApp(t, "check", "--pose", "E")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "Valid: false (failed: drive_base_clearance, permitted_bounds)")

	_, _, err = runApp(t, "check", "--pose", "nope")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConfigAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arm.json")
	test.That(t, os.WriteFile(path, []byte(`{"tick_hz": 30}`), 0o600), test.ShouldBeNil)

	out, _, err := runApp(t, "--config", path, "config")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "30.0 Hz")

	_, _, err = runApp(t, "--config", filepath.Join(t.TempDir(), "missing.json"), "config")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRunAction(t *testing.T) {
	dir := t.TempDir()
	snapshots := filepath.Join(dir, "frames")
	plotPath := filepath.Join(dir, "trajectory.png")

	out, errOut, err := runApp(t, "--debug", "run",
		"--ticks", "40",
		"--command", "D@1",
		"--command", "E@5",
		"--snapshot-dir", snapshots,
		"--snapshot-every", "20",
		"--plot", plotPath,
		"--table",
	)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "ACCEPTED")
	test.That(t, out, test.ShouldContainSubstring, "accepted")
	test.That(t, out, test.ShouldContainSubstring, "rejected")
	test.That(t, errOut, test.ShouldContainSubstring, "rejected commanded pose")

	for _, name := range []string{"frame_000020.png", "frame_000040.png"} {
		_, err := os.Stat(filepath.Join(snapshots, name))
		test.That(t, err, test.ShouldBeNil)
	}
	_, err = os.Stat(plotPath)
	test.That(t, err, test.ShouldBeNil)
}

func TestRunActionBadFlags(t *testing.T) {
	_, _, err := runApp(t, "run", "--ticks", "0")
	test.That(t, err, test.ShouldNotBeNil)

	_, _, err = runApp(t, "run", "--snapshot-every", "0")
	test.That(t, err, test.ShouldNotBeNil)

	_, _, err = runApp(t, "run", "--command", "bogus")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRunActionRealtimeStopsAtTicks(t *testing.T) {
	out, _, err := runApp(t, "run", "--ticks", "5", "--realtime")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "| 5 ")
}
