package layout

import (
	"math"
	"testing"

	"github.com/Garsondee/Gridiron-Sense/internal/eventlog"
)

func fixed(x, y float64) TargetFunc {
	return func(Node) (float64, float64) { return x, y }
}

func fromData(n Node) (float64, float64) {
	return n.TargetA * 10, 500 - n.TargetB*2
}

// --- Convergence ---

func TestSpringSettlesOnTargetsWithoutCollision(t *testing.T) {
	nodes := []Node{
		{ID: "A", TargetA: 10, TargetB: 20},
		{ID: "B", TargetA: 40, TargetB: 100},
		{ID: "C", TargetA: 70, TargetB: 5},
	}
	sim := New(nodes, fromData, WithSeed(7), WithoutCollision())
	ticks := sim.Run(10000)
	if !sim.Converged() {
		t.Fatalf("expected convergence, alpha=%g after %d ticks", sim.Alpha(), ticks)
	}
	if ticks < 250 || ticks > 350 {
		t.Fatalf("cooling from 1 to 0.001 should take about 300 ticks, took %d", ticks)
	}
	for _, n := range sim.Nodes() {
		tx, ty := fromData(n)
		if d := math.Hypot(n.X-tx, n.Y-ty); d > 0.5 {
			t.Fatalf("%s settled %.3fpx from its target (%g,%g), at (%g,%g)", n.ID, d, tx, ty, n.X, n.Y)
		}
	}
	if sim.Tick() {
		t.Fatal("Tick after convergence should be a no-op")
	}
}

func TestCollisionKeepsSharedTargetsApart(t *testing.T) {
	nodes := []Node{{ID: "A"}, {ID: "B"}}
	sim := New(nodes, fixed(300, 300), WithSeed(11), WithRadius(5))
	sim.Run(10000)
	snap := sim.Snapshot()
	if d := MinSeparation(snap.Positions); d < 5 {
		t.Fatalf("nodes sharing a target should stay >= 5 apart, got %.3f", d)
	}
}

func TestCollisionManyNodesOneTarget(t *testing.T) {
	nodes := make([]Node, 30)
	for i := range nodes {
		nodes[i].ID = string(rune('a' + i))
	}
	sim := New(nodes, fixed(400, 300), WithSeed(3))
	sim.Run(10000)
	if d := MinSeparation(sim.Snapshot().Positions); d < 5 {
		t.Fatalf("crowded nodes overlapped: min separation %.3f", d)
	}
}

func TestCoincidentNodesAreSeparated(t *testing.T) {
	sim := New([]Node{{ID: "A"}, {ID: "B"}}, fixed(100, 100), WithSeed(5))
	for i := range sim.nodes {
		sim.nodes[i].X, sim.nodes[i].Y = 100, 100
	}
	sim.Run(10000)
	if d := MinSeparation(sim.Snapshot().Positions); d < 5 {
		t.Fatalf("coincident nodes should be jiggled apart, got %.3f", d)
	}
}

// --- Determinism ---

func TestSeedIsDeterministic(t *testing.T) {
	nodes := []Node{{ID: "A", TargetA: 1}, {ID: "B", TargetA: 2}, {ID: "C", TargetA: 3}}
	a := New(nodes, fromData, WithSeed(42))
	b := New(nodes, fromData, WithSeed(42))
	a.Run(50)
	b.Run(50)
	na, nb := a.Nodes(), b.Nodes()
	for i := range na {
		if na[i].X != nb[i].X || na[i].Y != nb[i].Y {
			t.Fatalf("same seed diverged at node %d: %+v vs %+v", i, na[i], nb[i])
		}
	}
	c := New(nodes, fromData, WithSeed(43))
	if c.Nodes()[0].X == New(nodes, fromData, WithSeed(42)).Nodes()[0].X {
		t.Fatal("different seeds should place nodes differently")
	}
}

func TestInitialPlacementInsideBounds(t *testing.T) {
	nodes := make([]Node, 50)
	b := Bounds{X0: 10, Y0: 20, X1: 110, Y1: 70}
	sim := New(nodes, fixed(0, 0), WithSeed(9), WithBounds(b))
	for _, n := range sim.Nodes() {
		if n.X < b.X0 || n.X > b.X1 || n.Y < b.Y0 || n.Y > b.Y1 {
			t.Fatalf("node placed outside bounds: (%g,%g)", n.X, n.Y)
		}
	}
}

// --- Retarget, stop, subscribe ---

func TestRetargetReheatsWithoutReplacing(t *testing.T) {
	sim := New([]Node{{ID: "A"}}, fixed(100, 100), WithSeed(1), WithoutCollision())
	sim.Run(10000)
	before := sim.Nodes()[0]

	sim.Retarget(fixed(140, 100))
	if sim.Alpha() != 0.1 {
		t.Fatalf("retarget should set alpha to 0.1, got %g", sim.Alpha())
	}
	if sim.Converged() {
		t.Fatal("retarget should resume ticking")
	}
	sim.Tick()
	after := sim.Nodes()[0]
	if math.Hypot(after.X-before.X, after.Y-before.Y) > 5 {
		t.Fatalf("retarget should not re-randomise: jumped from (%g,%g) to (%g,%g)", before.X, before.Y, after.X, after.Y)
	}
	sim.Run(10000)
	end := sim.Nodes()[0]
	if math.Abs(end.X-140) > 20 {
		t.Fatalf("node should move most of the way to the new target, at x=%g", end.X)
	}
	if tx, _ := sim.Target(0); tx != 140 {
		t.Fatalf("cached target not updated: %g", tx)
	}
}

func TestRetargetAlphaKeptAboveThreshold(t *testing.T) {
	log := eventlog.New()
	sim := New([]Node{{ID: "A"}}, fixed(0, 700), WithSeed(1), WithoutCollision(),
		WithAlphaMin(0.2), WithRetargetAlpha(0.1), WithLog(log, "QB"))
	sim.Run(10000)
	if !log.HasEntry("layout", "retarget_alpha", "alpha_min") {
		t.Fatalf("expected a warning about the retarget alpha:\n%s", log.Format())
	}

	sim.Retarget(fixed(-920, 1400))
	if sim.Converged() {
		t.Fatalf("retarget must reheat above alpha_min, alpha=%g", sim.Alpha())
	}
	if ticks := sim.Run(10000); ticks == 0 {
		t.Fatal("no ticks ran after retarget")
	}
	if n := sim.Nodes()[0]; n.X > -100 {
		t.Fatalf("node should head for the new target, at (%g,%g)", n.X, n.Y)
	}
}

func TestStopCancels(t *testing.T) {
	sim := New([]Node{{ID: "A"}}, fixed(10, 10), WithSeed(1))
	calls := 0
	sim.Subscribe(func(Snapshot) { calls++ })
	sim.Tick()
	sim.Stop()
	if sim.Tick() {
		t.Fatal("Tick after Stop should return false")
	}
	sim.Retarget(fixed(0, 0))
	if sim.Alpha() == 0.1 {
		t.Fatal("Retarget after Stop should be ignored")
	}
	if calls != 1 || sim.Ticks() != 1 {
		t.Fatalf("expected exactly one published tick, calls=%d ticks=%d", calls, sim.Ticks())
	}
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	sim := New([]Node{{ID: "A"}, {ID: "B"}}, fixed(50, 50), WithSeed(2))
	var last Snapshot
	n := 0
	cancel := sim.Subscribe(func(s Snapshot) {
		last = s
		n++
	})
	sim.Run(5)
	if n != 5 || last.Tick != 5 || len(last.Positions) != 2 {
		t.Fatalf("unexpected snapshots: n=%d last=%+v", n, last)
	}
	last.Positions[0].X = -999
	if sim.Nodes()[0].X == -999 {
		t.Fatal("snapshot must not alias simulator state")
	}
	cancel()
	sim.Tick()
	if n != 5 {
		t.Fatal("cancelled subscriber still called")
	}
}

func TestConvergenceLogged(t *testing.T) {
	log := eventlog.New()
	sim := New([]Node{{ID: "A"}}, fixed(1, 1), WithSeed(1), WithLog(log, "QB"))
	ticks := sim.Run(10000)
	e, ok := log.LastOf("layout", "converged")
	if !ok || int(e.NumVal) != ticks || e.Subject != "QB" {
		t.Fatalf("expected converged entry with ticks=%d:\n%s", ticks, log.Format())
	}
}

func TestEmptySimulation(t *testing.T) {
	log := eventlog.New()
	sim := New(nil, fixed(0, 0), WithLog(log, ""))
	sim.Run(10000)
	if !sim.Converged() || len(sim.Snapshot().Positions) != 0 {
		t.Fatal("empty simulation should converge with no positions")
	}
	if !log.HasEntry("layout", "empty", "") {
		t.Fatal("expected empty diagnostic")
	}
	if !math.IsInf(MinSeparation(nil), 1) {
		t.Fatal("MinSeparation of nothing is +Inf")
	}
}
