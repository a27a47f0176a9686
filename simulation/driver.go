// Package simulation wires the kernel, gridstate, fire, evac, and reward
// packages into the single step loop of spec §4.6, plus the config (§6) and
// metrics/observation plumbing that the monitor and cmd packages consume.
package simulation

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wildfireevac/evac"
	"wildfireevac/fire"
	"wildfireevac/gridstate"
	"wildfireevac/metrics"
	"wildfireevac/reward"
)

// Driver orchestrates one episode: it owns the grid state, the evacuation
// manager, the reward accumulator, and the timestep counter.
type Driver struct {
	state   *gridstate.State
	evac    *evac.Manager
	reward  *reward.Accumulator
	metrics *metrics.Collector
	logger  zerolog.Logger

	timestep int
	horizon  int

	observations chan gridstate.Observation
}

// New constructs a Driver from cfg, whose Horizon sets termination (spec
// §4.6: the episode terminates once the timestep reaches the horizon).
// metricsCollector may be nil to disable metrics entirely.
func New(cfg Config, metricsCollector *metrics.Collector) (*Driver, error) {
	gsCfg, err := cfg.ToGridstateConfig()
	if err != nil {
		return nil, err
	}
	state, err := gridstate.New(gsCfg)
	if err != nil {
		return nil, err
	}

	d := &Driver{
		state:        state,
		evac:         evac.NewManager(state),
		reward:       reward.NewAccumulator(),
		metrics:      metricsCollector,
		logger:       log.With().Str("component", "simulation.Driver").Logger(),
		horizon:      cfg.Horizon,
		observations: make(chan gridstate.Observation, 1),
	}
	return d, nil
}

// Timestep returns the current step count, starting at 0 before the first
// Advance call (spec §4.6).
func (d *Driver) Timestep() int {
	return d.timestep
}

// Done reports episode termination: the timestep has reached the configured
// horizon (spec §4.6). A non-positive horizon means the episode never ends
// on its own.
func (d *Driver) Done() bool {
	return d.horizon > 0 && d.timestep >= d.horizon
}

// SetAction applies action before the next Advance, silently ignoring
// invalid or infeasible choices (spec §4.4, §7).
func (d *Driver) SetAction(action int) {
	d.evac.SetAction(action)
}

// NoopAction returns the action id that is always a no-op.
func (d *Driver) NoopAction() int {
	return d.state.NoopAction()
}

// Observe returns a defensive-copy snapshot of the current grid (spec §4.6).
func (d *Driver) Observe() gridstate.Observation {
	return d.state.Observe()
}

// Observations returns a channel the monitor package can subscribe to for
// the post-step observation published by Advance. The channel has capacity
// 1 and always holds only the most recent observation: Advance drops the
// stale value rather than blocking a slow or absent subscriber.
func (d *Driver) Observations() <-chan gridstate.Observation {
	return d.observations
}

// Advance runs one full step: propagate fire, update paths/evacuations,
// accumulate reward, then increments the timestep (spec §4.6). It returns
// the reward delta produced by this single step (not cumulative).
func (d *Driver) Advance() float64 {
	fire.Propagate(d.state)
	d.evac.Update()
	burned := d.reward.Update(d.state)
	stepReward := d.reward.ReadAndClear()

	d.timestep++

	if d.metrics != nil {
		d.metrics.StepsTotal.Inc()
		d.metrics.CumulativeReward.Add(stepReward)
		d.metrics.LivePaths.Set(float64(d.livePathCount()))
		if burned > 0 {
			d.metrics.CellsBurnedTotal.Add(float64(burned))
		}
	}

	obs := d.state.Observe()
	select {
	case <-d.observations:
	default:
	}
	d.observations <- obs

	d.logger.Debug().
		Int("timestep", d.timestep).
		Float64("step_reward", stepReward).
		Int("burned", burned).
		Bool("done", d.Done()).
		Msg("advanced simulation step")

	return stepReward
}

func (d *Driver) livePathCount() int {
	count := 0
	for _, rec := range d.state.PathRecords {
		if rec.Live {
			count++
		}
	}
	return count
}
