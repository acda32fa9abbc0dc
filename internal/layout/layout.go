// Package layout declutters scatter points with a cooling force simulation:
// a spring pulls each node toward its target while a collision pass keeps
// node centres apart.
package layout

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/Garsondee/Gridiron-Sense/internal/eventlog"
)

// Node is one entity in the simulation. TargetA and TargetB are the data
// values the target function maps to pixel space.
type Node struct {
	ID      string
	TargetA float64
	TargetB float64
	X, Y    float64
	VX, VY  float64
}

// TargetFunc maps a node to its target position.
type TargetFunc func(n Node) (x, y float64)

// Position is a node's location at one tick.
type Position struct {
	ID   string
	X, Y float64
}

// Snapshot is published after every tick. Each snapshot owns its Positions.
type Snapshot struct {
	Tick      int
	Alpha     float64
	Converged bool
	Positions []Position
}

// Bounds is the rectangle initial positions are drawn from.
type Bounds struct {
	X0, Y0, X1, Y1 float64
}

// Simulator owns node positions. Only Tick moves them.
type Simulator struct {
	nodes   []Node
	target  TargetFunc
	targets [][2]float64

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64
	strength      float64
	radius        float64
	collide       bool
	iterations    int
	retargetAlpha float64

	seed    int64
	rng     *rand.Rand
	bounds  Bounds
	tick    int
	stopped bool
	done    bool

	grid    map[cell][]int
	subs    map[int]func(Snapshot)
	nextSub int

	log     *eventlog.Log
	subject string
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithSeed makes initial placement and collision jiggle deterministic.
// Without it the seed is time-based.
func WithSeed(seed int64) Option {
	return func(s *Simulator) { s.seed = seed }
}

// WithBounds sets the initial placement rectangle.
func WithBounds(b Bounds) Option {
	return func(s *Simulator) { s.bounds = b }
}

// WithStrength sets the spring strength toward targets.
func WithStrength(k float64) Option {
	return func(s *Simulator) { s.strength = k }
}

// WithRadius sets the collision radius of every node.
func WithRadius(r float64) Option {
	return func(s *Simulator) { s.radius = r }
}

// WithoutCollision disables the collision pass.
func WithoutCollision() Option {
	return func(s *Simulator) { s.collide = false }
}

// WithCollideIterations sets how many collision passes run per tick.
func WithCollideIterations(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.iterations = n
		}
	}
}

// WithAlphaMin sets the convergence threshold. The decay rate is derived so
// cooling from 1 takes about 300 ticks.
func WithAlphaMin(m float64) Option {
	return func(s *Simulator) { s.alphaMin = m }
}

// WithVelocityDecay sets the fraction of velocity lost per tick.
func WithVelocityDecay(d float64) Option {
	return func(s *Simulator) { s.velocityDecay = d }
}

// WithRetargetAlpha sets the alpha Retarget reheats to.
func WithRetargetAlpha(a float64) Option {
	return func(s *Simulator) { s.retargetAlpha = a }
}

// WithLog records convergence and retarget events under subject.
func WithLog(l *eventlog.Log, subject string) Option {
	return func(s *Simulator) {
		s.log = l
		s.subject = subject
	}
}

// New places nodes at random inside the bounds and computes their targets.
func New(nodes []Node, target TargetFunc, opts ...Option) *Simulator {
	s := &Simulator{
		nodes:         append([]Node(nil), nodes...),
		target:        target,
		alpha:         1,
		alphaMin:      0.001,
		velocityDecay: 0.4,
		strength:      0.7,
		radius:        5,
		collide:       true,
		iterations:    1,
		retargetAlpha: 0.1,
		bounds:        Bounds{X1: 800, Y1: 600},
		grid:          make(map[cell][]int),
		subs:          make(map[int]func(Snapshot)),
	}
	for _, o := range opts {
		o(s)
	}
	if s.seed == 0 {
		s.seed = time.Now().UnixNano()
	}
	s.rng = rand.New(rand.NewSource(s.seed)) // #nosec G404 -- layout jitter, not security
	s.alphaDecay = 1 - math.Pow(s.alphaMin, 1.0/300)
	if s.retargetAlpha <= s.alphaMin {
		// Reheating to or below the threshold would leave Retarget with no ticks.
		s.log.Warn(s.subject, "layout", "retarget_alpha", fmt.Sprintf("%.3g <= alpha_min %.3g", s.retargetAlpha, s.alphaMin), s.retargetAlpha)
		s.retargetAlpha = math.Min(1, s.alphaMin*10)
	}

	w, h := s.bounds.X1-s.bounds.X0, s.bounds.Y1-s.bounds.Y0
	for i := range s.nodes {
		s.nodes[i].X = s.bounds.X0 + s.rng.Float64()*w
		s.nodes[i].Y = s.bounds.Y0 + s.rng.Float64()*h
		s.nodes[i].VX, s.nodes[i].VY = 0, 0
	}
	s.computeTargets()
	if len(s.nodes) == 0 {
		s.log.Warn(s.subject, "layout", "empty", "no nodes to lay out", 0)
	}
	return s
}

func (s *Simulator) computeTargets() {
	s.targets = make([][2]float64, len(s.nodes))
	if s.target == nil {
		return
	}
	for i, n := range s.nodes {
		x, y := s.target(n)
		s.targets[i] = [2]float64{x, y}
	}
}

// Seed returns the seed used for placement.
func (s *Simulator) Seed() int64 { return s.seed }

// Alpha returns the current cooling factor.
func (s *Simulator) Alpha() float64 { return s.alpha }

// Ticks returns how many ticks have run.
func (s *Simulator) Ticks() int { return s.tick }

// Converged reports whether alpha has fallen below the threshold.
func (s *Simulator) Converged() bool { return s.alpha < s.alphaMin }

// Stopped reports whether Stop has been called.
func (s *Simulator) Stopped() bool { return s.stopped }

// Nodes returns a copy of the current node state.
func (s *Simulator) Nodes() []Node {
	return append([]Node(nil), s.nodes...)
}

// Target returns node i's current target position.
func (s *Simulator) Target(i int) (x, y float64) {
	return s.targets[i][0], s.targets[i][1]
}

// Tick advances the simulation one step and publishes a snapshot. It returns
// false without doing anything once converged or stopped.
func (s *Simulator) Tick() bool {
	if s.stopped || s.Converged() {
		return false
	}
	s.tick++
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	k := s.strength * s.alpha
	for i := range s.nodes {
		n := &s.nodes[i]
		n.VX += (s.targets[i][0] - n.X) * k
		n.VY += (s.targets[i][1] - n.Y) * k
	}
	if s.collide && s.radius > 0 {
		for it := 0; it < s.iterations; it++ {
			s.resolveCollisions()
		}
	}
	keep := 1 - s.velocityDecay
	for i := range s.nodes {
		n := &s.nodes[i]
		n.VX *= keep
		n.VY *= keep
		n.X += n.VX
		n.Y += n.VY
	}

	converged := s.Converged()
	if converged && !s.done {
		s.done = true
		s.log.Info(s.subject, "layout", "converged", fmt.Sprintf("ticks=%d nodes=%d", s.tick, len(s.nodes)), float64(s.tick))
	}
	s.publish(converged)
	return true
}

// Run ticks until converged, stopped, or maxTicks have run. It returns the
// number of ticks performed.
func (s *Simulator) Run(maxTicks int) int {
	n := 0
	for n < maxTicks && s.Tick() {
		n++
	}
	return n
}

// Retarget swaps the target function and reheats to the retarget alpha,
// keeping current positions and velocities.
func (s *Simulator) Retarget(target TargetFunc) {
	if s.stopped {
		return
	}
	s.target = target
	s.computeTargets()
	s.alpha = s.retargetAlpha
	s.done = false
	s.log.Debug(s.subject, "layout", "retarget", fmt.Sprintf("alpha=%.2f", s.alpha), s.alpha)
}

// Stop cancels the simulation. Later Tick and Retarget calls are no-ops and
// subscribers are dropped.
func (s *Simulator) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	s.subs = make(map[int]func(Snapshot))
	s.log.Debug(s.subject, "layout", "stopped", fmt.Sprintf("ticks=%d", s.tick), float64(s.tick))
}

// Subscribe registers fn to receive every published snapshot. The returned
// function unsubscribes.
func (s *Simulator) Subscribe(fn func(Snapshot)) (cancel func()) {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

// Snapshot captures the current positions.
func (s *Simulator) Snapshot() Snapshot {
	pos := make([]Position, len(s.nodes))
	for i, n := range s.nodes {
		pos[i] = Position{ID: n.ID, X: n.X, Y: n.Y}
	}
	return Snapshot{Tick: s.tick, Alpha: s.alpha, Converged: s.Converged(), Positions: pos}
}

func (s *Simulator) publish(converged bool) {
	if len(s.subs) == 0 {
		return
	}
	snap := s.Snapshot()
	snap.Converged = converged
	for _, fn := range s.subs {
		fn(snap)
	}
}
