// Package control runs a telescoping arm and its transition handler at a fixed tick rate.
package control

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.viam.com/utils"

	"go.viam.com/stemsolvers/components/arm/telescoping"
	"go.viam.com/stemsolvers/kinematics"
	"go.viam.com/stemsolvers/logging"
	"go.viam.com/stemsolvers/motionplan"
)

const (
	maxFrequency         = 1000.0
	defaultCommandBuffer = 16
)

// ErrCommandQueueFull is returned by Command when the loop has not yet drained earlier commands.
var ErrCommandQueueFull = errors.New("command queue full")

// Config configures a Loop.
type Config struct {
	// Frequency is the tick rate in Hz.
	Frequency float64
	// CommandBuffer is how many commands may wait between ticks. Zero means a default of 16.
	CommandBuffer int
	// Clock drives the ticker. Nil means the wall clock.
	Clock clock.Clock
	// MaxTicks stops a started loop once this many ticks have run. Zero means no limit.
	MaxTicks int64
}

// Snapshot is the state of the arm after one tick.
type Snapshot struct {
	Tick      int64
	Time      time.Time
	Current   kinematics.Pose
	Target    kinematics.Pose
	Commanded kinematics.Pose
	Plan      motionplan.Plan
	Points    kinematics.MechanismPoints
	Valid     bool
	Reached   bool
	// Commands lists the results of commands applied this tick, in arrival order.
	Commands []CommandResult
}

// CommandResult records whether one command was accepted.
type CommandResult struct {
	Pose     kinematics.Pose
	Accepted bool
}

// Observer is called with every snapshot, on the loop's goroutine.
type Observer func(Snapshot)

// Stats are the loop counters. They are safe to read while the loop runs.
type Stats struct {
	Ticks          int64
	Accepted       int64
	Rejected       int64
	Holds          int64
	Rescues        int64
	RescueFailures int64
}

// Loop owns an arm and its transition handler. Once started, the arm and handler are only touched on
// the loop's goroutine; other goroutines talk to it through Command and read counters through Stats.
type Loop struct {
	cfg     Config
	arm     *telescoping.Arm
	handler *motionplan.TransitionHandler
	logger  logging.Logger
	clk     clock.Clock
	dt      time.Duration

	commands chan kinematics.Pose

	observersMu sync.Mutex
	observers   []Observer

	ticks, accepted, rejected       atomic.Int64
	holds, rescues, rescueFailures atomic.Int64

	mu                      sync.Mutex
	running                 bool
	activeBackgroundWorkers sync.WaitGroup
	cancelCtx               context.Context
	cancel                  context.CancelFunc
}

// NewLoop constructs a loop for the given arm and handler. The handler must have been built for the arm.
func NewLoop(logger logging.Logger, cfg Config, arm *telescoping.Arm, handler *motionplan.TransitionHandler) (*Loop, error) {
	if cfg.Frequency <= 0 || cfg.Frequency > maxFrequency {
		return nil, errors.Errorf("loop frequency must be in (0, %.0f] Hz, got %v", maxFrequency, cfg.Frequency)
	}
	if cfg.MaxTicks < 0 {
		return nil, errors.Errorf("max ticks must not be negative, got %d", cfg.MaxTicks)
	}
	if cfg.CommandBuffer < 0 {
		return nil, errors.Errorf("command buffer must not be negative, got %d", cfg.CommandBuffer)
	}
	if cfg.CommandBuffer == 0 {
		cfg.CommandBuffer = defaultCommandBuffer
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	cancelCtx, cancel := context.WithCancel(context.Background())
	return &Loop{
		cfg:       cfg,
		arm:       arm,
		handler:   handler,
		logger:    logger,
		clk:       clk,
		dt:        time.Duration(float64(time.Second) / cfg.Frequency),
		commands:  make(chan kinematics.Pose, cfg.CommandBuffer),
		cancelCtx: cancelCtx,
		cancel:    cancel,
	}, nil
}

// AddObserver registers a function to receive every snapshot.
func (l *Loop) AddObserver(o Observer) {
	l.observersMu.Lock()
	defer l.observersMu.Unlock()
	l.observers = append(l.observers, o)
}

// Command queues a pose to be offered to the transition handler on the next tick.
func (l *Loop) Command(pose kinematics.Pose) error {
	select {
	case l.commands <- pose:
		return nil
	default:
		return ErrCommandQueueFull
	}
}

// Step runs one tick: the arm steps toward its target, the handler picks the next intermediate pose,
// then queued commands are offered to the handler. Step must not be called while the loop is running.
func (l *Loop) Step() Snapshot {
	l.arm.Update()
	l.handler.Update()

	var results []CommandResult
	for drained := false; !drained; {
		select {
		case pose := <-l.commands:
			ok := l.handler.TransitionTo(pose)
			if ok {
				l.accepted.Inc()
			} else {
				l.rejected.Inc()
			}
			results = append(results, CommandResult{Pose: pose, Accepted: ok})
		default:
			drained = true
		}
	}

	hs := l.handler.Stats()
	l.holds.Store(int64(hs.Holds))
	l.rescues.Store(int64(hs.Rescues))
	l.rescueFailures.Store(int64(hs.RescueFailures))

	current := l.arm.CurrentPose()
	snap := Snapshot{
		Tick:      l.ticks.Inc(),
		Time:      l.clk.Now(),
		Current:   current,
		Target:    l.arm.TargetPose(),
		Commanded: l.handler.CommandedTarget(),
		Plan:      l.handler.LastPlan(),
		Points:    l.arm.MechanismPoints(),
		Valid:     l.handler.IsValidState(current),
		Reached:   l.arm.HasReachedTarget(),
		Commands:  results,
	}

	l.observersMu.Lock()
	observers := l.observers
	l.observersMu.Unlock()
	for _, o := range observers {
		o(snap)
	}
	return snap
}

// Run steps the loop n times without a clock, stopping early at MaxTicks.
func (l *Loop) Run(n int) Snapshot {
	var snap Snapshot
	for i := 0; i < n && !l.exhausted(); i++ {
		snap = l.Step()
	}
	return snap
}

func (l *Loop) exhausted() bool {
	return l.cfg.MaxTicks > 0 && l.ticks.Load() >= l.cfg.MaxTicks
}

// Start starts ticking on a background goroutine.
func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return errors.New("control loop already running")
	}
	if l.cancelCtx.Err() != nil {
		return errors.New("cannot restart a stopped control loop")
	}
	l.logger.Infof("running loop at %1.4f Hz (%v per tick)", l.cfg.Frequency, l.dt)

	ticker := l.clk.Ticker(l.dt)
	waitCh := make(chan struct{})
	l.activeBackgroundWorkers.Add(1)
	utils.ManagedGo(func() {
		defer ticker.Stop()
		close(waitCh)
		for {
			select {
			case <-l.cancelCtx.Done():
				return
			case <-ticker.C:
				if l.exhausted() {
					return
				}
				l.Step()
			}
		}
	}, l.activeBackgroundWorkers.Done)
	<-waitCh
	l.running = true
	return nil
}

// Stop stops the loop and waits for its goroutine to exit.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancel()
	l.activeBackgroundWorkers.Wait()
	if l.running {
		l.logger.Debugw("control loop stopped", "ticks", l.ticks.Load())
	}
	l.running = false
}

// Running reports whether the loop goroutine is active.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Frequency returns the loop's frequency.
func (l *Loop) Frequency() float64 {
	return l.cfg.Frequency
}

// Stats returns a copy of the loop counters.
func (l *Loop) Stats() Stats {
	return Stats{
		Ticks:          l.ticks.Load(),
		Accepted:       l.accepted.Load(),
		Rejected:       l.rejected.Load(),
		Holds:          l.holds.Load(),
		Rescues:        l.rescues.Load(),
		RescueFailures: l.rescueFailures.Load(),
	}
}
