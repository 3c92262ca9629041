// 27 Feb 2026

package measure_test

import (
	"bytes"
	"context"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dgront/surpass/pkg/brokenio"
	"github.com/dgront/surpass/pkg/energy"
	"github.com/dgront/surpass/pkg/mc"
	. "github.com/dgront/surpass/pkg/measure"
	"github.com/dgront/surpass/pkg/mover"
	"github.com/dgront/surpass/pkg/system"
)

func place(t *testing.T, ss []string, side float64, pos []r3.Vec) *system.System {
	t.Helper()
	s, err := system.FromVecs(ss, system.FixedSide(side), nil, pos)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestREndAndRgOnStraightChain(t *testing.T) {
	pos := make([]r3.Vec, 5)
	for i := range pos {
		pos[i] = r3.Vec{X: 10 + 3.8*float64(i), Y: 10, Z: 10}
	}
	s := place(t, []string{"CCCCC"}, 40, pos)

	re := NewREndSquared(0).Measure(s)
	want := (4 * 3.8) * (4 * 3.8)
	if math.Abs(re[0]-want) > 5 {
		t.Errorf("end-to-end squared %g, want about %g", re[0], want)
	}

	// for n equidistant beads on a line with spacing d the gyration
	// radius squared is d^2 (n^2-1)/12
	rg := NewRgSquared(0).Measure(s)
	wantRg := 3.8 * 3.8 * (25 - 1) / 12
	if math.Abs(rg[0]-wantRg) > 1 {
		t.Errorf("rg squared %g, want about %g", rg[0], wantRg)
	}
}

// a chain poking through a box wall must be measured in one piece
func TestUnwrappedAcrossWall(t *testing.T) {
	pos := []r3.Vec{
		{X: 38.0, Y: 10, Z: 10},
		{X: 39.9, Y: 10, Z: 10},
		{X: 41.8, Y: 10, Z: 10}, // wraps to 1.8
	}
	s := place(t, []string{"CCC"}, 40, pos)

	cm := ChainCenter(s, 0)
	if math.Abs(cm.X-39.9) > 0.2 || math.Abs(cm.Y-10) > 0.2 {
		t.Errorf("center of mass %v, want about (39.9, 10, 10)", cm)
	}

	v := NewREndVector(0).Measure(s)
	if math.Abs(v[0]-3.8) > 0.3 || math.Abs(v[1]) > 0.3 {
		t.Errorf("end-to-end vector (%g, %g, %g), want about (3.8, 0, 0)", v[0], v[1], v[2])
	}
}

func TestRecordFormat(t *testing.T) {
	pos := []r3.Vec{{X: 10, Y: 10, Z: 10}, {X: 13.8, Y: 10, Z: 10}}
	s := place(t, []string{"CC"}, 40, pos)

	var buf bytes.Buffer
	rec := NewRecord(&buf, NewREndSquared(0), NewChainCM(0))
	for i := 0; i < 2; i++ {
		if err := rec.Observe(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatal("want header + 2 rows, got", len(lines))
	}
	if !strings.HasPrefix(lines[0], "#") || !strings.Contains(lines[0], "r-end-squared-0") {
		t.Error("bad header:", lines[0])
	}
	for _, row := range lines[1:] {
		if n := len(strings.Fields(row)); n != 4 {
			t.Error("want 4 columns, got", n, "in", row)
		}
	}
}

func TestRecordToFile(t *testing.T) {
	pos := []r3.Vec{{X: 10, Y: 10, Z: 10}, {X: 13.8, Y: 10, Z: 10}}
	s := place(t, []string{"CC"}, 40, pos)

	path := filepath.Join(t.TempDir(), "measurements.dat")
	rec, err := RecordToFile(path, NewREndSquared(0))
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.Observe(s); err != nil {
		t.Fatal(err)
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "#") {
		t.Error("file should start with the header row")
	}
}

// a system that never moves has zero displacement at every lag
func TestCMDisplacementStatic(t *testing.T) {
	pos := []r3.Vec{{X: 10, Y: 10, Z: 10}, {X: 13.8, Y: 10, Z: 10}}
	s := place(t, []string{"CC"}, 40, pos)

	var buf bytes.Buffer
	cd := NewCMDisplacement(s, 3, &buf)
	for i := 0; i < 8; i++ {
		if err := cd.Observe(s); err != nil {
			t.Fatal(err)
		}
	}
	if cd.Samples() != 5 {
		t.Error("3 frames fill the window, 5 should be sampled; got", cd.Samples())
	}
	for lag, v := range cd.Curve() {
		if v != 0 {
			t.Error("static system displaced at lag", lag+1, ":", v)
		}
	}
	if err := cd.Close(); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 3 {
		t.Error("want one row per lag, got", n)
	}
}

// hopping a chain by a fixed step per frame gives displacement
// (lag*step)^2, with the minimum image applied
func TestCMDisplacementSteps(t *testing.T) {
	step := 1.0
	makeAt := func(x float64) *system.System {
		return place(t, []string{"CC"}, 40, []r3.Vec{
			{X: x, Y: 10, Z: 10},
			{X: x + 3.8, Y: 10, Z: 10},
		})
	}
	var buf bytes.Buffer
	cd := NewCMDisplacement(makeAt(5), 2, &buf)
	for i := 0; i < 6; i++ {
		if err := cd.Observe(makeAt(5 + step*float64(i))); err != nil {
			t.Fatal(err)
		}
	}
	curve := cd.Curve()
	for lag := 0; lag < 2; lag++ {
		want := float64(lag+1) * float64(lag+1) * step * step
		if math.Abs(curve[lag]-want) > 0.6 {
			t.Errorf("lag %d displacement %g, want about %g", lag+1, curve[lag], want)
		}
	}
}

// counter feeds an AR(1) series through the Measurement interface,
// ignoring the system entirely.
type counter struct {
	x   float64
	phi float64
	rng *rand.Rand
}

func (c *counter) Measure(*system.System) []float64 {
	c.x = c.phi*c.x + c.rng.NormFloat64()
	return []float64{c.x}
}
func (c *counter) Header() string { return "ar1" }

func TestAutocorrelateAR1(t *testing.T) {
	phi := 0.8
	src := &counter{phi: phi, rng: rand.New(rand.NewSource(20))}
	var buf bytes.Buffer
	ac := NewAutocorrelate(src, 10, &buf)
	for i := 0; i < 20000; i++ {
		if err := ac.Observe(nil); err != nil {
			t.Fatal(err)
		}
	}
	norm := ac.Normalized()
	if norm[0] != 1 {
		t.Fatal("first lag must normalize to 1, got", norm[0])
	}
	// the autocorrelation of AR(1) with coefficient phi decays as
	// phi^lag; the first lag is index 0 here
	for lag, v := range norm {
		want := math.Pow(phi, float64(lag))
		if math.Abs(v-want) > 0.1 {
			t.Errorf("lag %d correlation %g, want about %g", lag+1, v, want)
		}
	}
	if err := ac.Close(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "# n_samples: 20000") {
		t.Error("missing sample count header")
	}
}

func TestContactFrequency(t *testing.T) {
	pos := []r3.Vec{
		{X: 10, Y: 10, Z: 10},
		{X: 10, Y: 13.8, Z: 10},
		{X: 14, Y: 10, Z: 10},
		{X: 30, Y: 30, Z: 30},
	}
	s := place(t, []string{"CCCC"}, 40, pos)

	var buf bytes.Buffer
	cf := NewContactFrequency(s, 6.0, &buf)
	for i := 0; i < 2; i++ {
		if err := cf.Observe(s); err != nil {
			t.Fatal(err)
		}
	}
	if got := cf.Frequency(0, 2); got != 1 {
		t.Error("beads 0 and 2 are 4 apart, frequency", got)
	}
	if cf.Frequency(0, 2) != cf.Frequency(2, 0) {
		t.Error("the map must be symmetric")
	}
	if got := cf.Frequency(0, 3); got != 0 {
		t.Error("beads 0 and 3 are far apart, frequency", got)
	}
	if got := cf.Frequency(0, 1); got != 0 {
		t.Error("bonded neighbors never count as contacts, frequency", got)
	}
	if err := cf.Close(); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 4 {
		t.Error("want one row per bead, got", n)
	}
}

// end-to-end vector autocorrelation on a live trajectory: starts at 1
// and decays as the chain forgets its starting conformation
func TestAutocorrelateTrajectory(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	s, err := system.BySecondaryStructure([]string{"CCCCCCCC"}, system.FixedSide(40), nil, rng)
	if err != nil {
		t.Fatal(err)
	}
	total := energy.NewTotal().
		Add(energy.NewNonBonded(energy.NewExcludedVolume(s.Space(), 4.0, 1e6)), 1.0)
	proto := mc.NewIsothermal(s, total, mc.NewMetropolis(1.0, 22), rng, system.DefaultProposalCap)
	proto.AddMover(mover.NewSingleAtom(1.5), 1.0)

	var buf bytes.Buffer
	ac := NewAutocorrelate(NewREndVector(0), 30, &buf)
	proto.AddObserver(ac)
	if err := proto.Run(context.Background(), 600, 20); err != nil {
		t.Fatal(err)
	}

	norm := ac.Normalized()
	if norm[0] != 1 {
		t.Fatal("zero separation must correlate perfectly, got", norm[0])
	}
	min := norm[0]
	for _, v := range norm {
		if v < min {
			min = v
		}
	}
	if min > 0.95 {
		t.Error("no decay over 30 lags; minimum correlation", min)
	}
	if err := ac.Close(); err != nil {
		t.Fatal(err)
	}
}

// observers must surface write failures instead of losing them
func TestObserversReportWriteErrors(t *testing.T) {
	pos := []r3.Vec{{X: 10, Y: 10, Z: 10}, {X: 13.8, Y: 10, Z: 10}}
	s := place(t, []string{"CC"}, 40, pos)

	var buf bytes.Buffer
	tr := NewPDBTrajectory(brokenio.NewWriter(&buf, 20))
	if err := tr.Observe(s); err == nil {
		t.Error("trajectory frame larger than the disk must fail")
	}

	rec := NewRecord(brokenio.NewWriter(&buf, 10), NewREndSquared(0))
	if err := rec.Observe(s); err != nil {
		// buffered, so the failure may be deferred to Close
		return
	}
	if err := rec.Close(); err == nil {
		t.Error("the short write must show up on Close at the latest")
	}
}

func TestPDBTrajectoryFormat(t *testing.T) {
	pos := []r3.Vec{
		{X: 10, Y: 10, Z: 10},
		{X: 13.8, Y: 10, Z: 10},
		{X: 20, Y: 20, Z: 20},
		{X: 23.8, Y: 20, Z: 20},
	}
	s := place(t, []string{"CC", "CC"}, 40, pos)

	var buf bytes.Buffer
	tr := NewPDBTrajectory(&buf)
	for i := 0; i < 2; i++ {
		if err := tr.Observe(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Count(out, "MODEL") != 2 || strings.Count(out, "ENDMDL") != 2 {
		t.Error("want 2 MODEL/ENDMDL frames")
	}
	var atoms []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "ATOM") {
			atoms = append(atoms, line)
		}
	}
	if len(atoms) != 8 {
		t.Fatal("want 4 atoms per frame over 2 frames, got", len(atoms))
	}
	f := strings.Fields(atoms[0])
	if f[2] != "CA" || f[3] != "ALA" || f[4] != "A" || f[5] != "1" {
		t.Error("first atom record malformed:", atoms[0])
	}
	f = strings.Fields(atoms[2])
	if f[4] != "B" || f[5] != "1" {
		t.Error("residue numbering must restart in chain B:", atoms[2])
	}
}
