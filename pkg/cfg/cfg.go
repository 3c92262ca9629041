// 1 Mar 2026

// Package cfg reads a simulation from a YAML file and wires it up: the
// system, the energy terms, the movers and the observers. A Cfg can
// also be filled by hand; call Check before Build in that case.
package cfg

import (
	"bufio"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dgront/surpass/pkg/energy"
	"github.com/dgront/surpass/pkg/quant"
)

// Cfg holds everything a simulation needs. Exactly one of BoxSide and
// Density defines the box; exactly one of Chains and ChainsFile
// defines the molecules.
type Cfg struct {
	// Temperature in units of the Boltzmann constant.
	Temperature float64 `yaml:"temperature"`

	// OuterSteps counts observation cycles, InnerSteps the Monte
	// Carlo steps between observations.
	OuterSteps int `yaml:"outerSteps"`
	InnerSteps int `yaml:"innerSteps"`

	// Seed makes the trajectory reproducible.
	Seed int64 `yaml:"seed"`

	// Chains are secondary structure strings over H, E and C, one
	// per chain. ChainsFile names a fasta-like file with the same
	// content.
	Chains     []string `yaml:"chains"`
	ChainsFile string   `yaml:"chainsFile"`

	// BoxSide is the box edge in Angstroms; Density is beads per
	// cubic Angstrom for a cube sized to fit.
	BoxSide float64 `yaml:"boxSide"`
	Density float64 `yaml:"density"`

	// BondLength between consecutive beads; 3.8 when left out.
	BondLength float64 `yaml:"bondLength"`

	// Adaptive turns on mover-range tuning toward a target
	// acceptance rate.
	Adaptive bool `yaml:"adaptive"`

	Energy    EnergyCfg    `yaml:"energy"`
	Movers    MoversCfg    `yaml:"movers"`
	Observers ObserversCfg `yaml:"observers"`
}

// EnergyCfg lists the terms of the total energy. Terms left out are
// simply not used; at least one must be present.
type EnergyCfg struct {
	ExcludedVolume *ExcludedVolumeCfg `yaml:"excludedVolume"`
	Contact        *ContactCfg        `yaml:"contact"`
	Harmonic       *HarmonicCfg       `yaml:"harmonic"`
}

// ExcludedVolumeCfg is a hard repulsive core.
type ExcludedVolumeCfg struct {
	RRep     float64 `yaml:"rRep"`
	EPenalty float64 `yaml:"ePenalty"`
	Weight   float64 `yaml:"weight"`
}

// ContactCfg is the square-well contact kernel.
type ContactCfg struct {
	RRep   float64 `yaml:"rRep"`
	RMin   float64 `yaml:"rMin"`
	RMax   float64 `yaml:"rMax"`
	ERep   float64 `yaml:"eRep"`
	ECont  float64 `yaml:"eCont"`
	Weight float64 `yaml:"weight"`
}

// HarmonicCfg is the bonded spring term.
type HarmonicCfg struct {
	K      float64 `yaml:"k"`
	R0     float64 `yaml:"r0"`
	Weight float64 `yaml:"weight"`
}

// MoversCfg lists the moves of the sampler. Angles are in degrees,
// steps in Angstroms. Movers left out are not used; at least one must
// be present.
type MoversCfg struct {
	SingleAtom *SingleAtomCfg `yaml:"singleAtom"`
	Terminal   *TerminalCfg   `yaml:"terminal"`
	Hinge      *HingeCfg      `yaml:"hinge"`
	Pivot      *PivotCfg      `yaml:"pivot"`
}

// SingleAtomCfg perturbs one internal bead.
type SingleAtomCfg struct {
	MaxStep float64 `yaml:"maxStep"`
	Weight  float64 `yaml:"weight"`
}

// TerminalCfg regrows a chain end at bond length, give or take Tol.
type TerminalCfg struct {
	Tol    float64 `yaml:"tol"`
	Weight float64 `yaml:"weight"`
}

// HingeCfg rotates one bead about the axis through its neighbors.
type HingeCfg struct {
	MaxAngleDeg float64 `yaml:"maxAngle"`
	Weight      float64 `yaml:"weight"`
}

// PivotCfg rotates a chain flank about a bond.
type PivotCfg struct {
	MaxAngleDeg float64 `yaml:"maxAngle"`
	Weight      float64 `yaml:"weight"`
}

// ObserversCfg names the output files. Empty fields switch the
// corresponding observer off.
type ObserversCfg struct {
	// Measurements is a tab-separated table of per-chain end-to-end
	// squared distance, gyration radius squared and center of mass.
	Measurements string `yaml:"measurements"`

	// Trajectory is a multi-model PDB file.
	Trajectory string `yaml:"trajectory"`

	Contacts       *ContactsObsCfg `yaml:"contacts"`
	CMDisplacement *WindowObsCfg   `yaml:"cmDisplacement"`
	REndAutocorr   *WindowObsCfg   `yaml:"rEndAutocorr"`
}

// ContactsObsCfg accumulates a contact-frequency map.
type ContactsObsCfg struct {
	File     string  `yaml:"file"`
	RContact float64 `yaml:"rContact"`
}

// WindowObsCfg is an observer with a rolling window of frames.
type WindowObsCfg struct {
	File   string `yaml:"file"`
	Window int    `yaml:"window"`
}

// New opens and decodes a YAML configuration file and checks it.
func New(path string) (*Cfg, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("configuration file: %w", err)
	}
	defer f.Close()

	var c Cfg
	dec := yaml.NewDecoder(bufio.NewReader(f))
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if err := c.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// Check verifies that the configuration describes a runnable
// simulation.
func (c *Cfg) Check() error {
	if c.Temperature <= 0 {
		return fmt.Errorf("temperature must be greater than 0")
	}
	if c.OuterSteps < 0 || c.InnerSteps < 0 {
		return fmt.Errorf("outerSteps and innerSteps cannot be negative")
	}
	if (len(c.Chains) == 0) == (c.ChainsFile == "") {
		return fmt.Errorf("give either chains or chainsFile")
	}
	if (c.BoxSide > 0) == (c.Density > 0) {
		return fmt.Errorf("give either boxSide or density, greater than 0")
	}
	if c.BondLength < 0 {
		return fmt.Errorf("bondLength cannot be negative")
	}

	e := c.Energy
	if e.ExcludedVolume == nil && e.Contact == nil && e.Harmonic == nil {
		return fmt.Errorf("at least one energy term is needed")
	}
	if ev := e.ExcludedVolume; ev != nil && (ev.RRep <= 0 || ev.EPenalty <= 0) {
		return fmt.Errorf("excludedVolume needs rRep and ePenalty greater than 0")
	}
	if ct := e.Contact; ct != nil {
		if ct.RRep <= 0 || ct.RMin < ct.RRep || ct.RMax <= ct.RMin {
			return fmt.Errorf("contact needs 0 < rRep <= rMin < rMax")
		}
	}
	if h := e.Harmonic; h != nil && (h.K <= 0 || h.R0 <= 0) {
		return fmt.Errorf("harmonic needs k and r0 greater than 0")
	}

	m := c.Movers
	if m.SingleAtom == nil && m.Terminal == nil && m.Hinge == nil && m.Pivot == nil {
		return fmt.Errorf("at least one mover is needed")
	}
	if sa := m.SingleAtom; sa != nil && sa.MaxStep <= 0 {
		return fmt.Errorf("singleAtom needs maxStep greater than 0")
	}
	if tm := m.Terminal; tm != nil && tm.Tol <= 0 {
		return fmt.Errorf("terminal needs tol greater than 0")
	}
	if h := m.Hinge; h != nil && (h.MaxAngleDeg <= 0 || h.MaxAngleDeg > 180) {
		return fmt.Errorf("hinge maxAngle must be in (0, 180] degrees")
	}
	if pv := m.Pivot; pv != nil && (pv.MaxAngleDeg <= 0 || pv.MaxAngleDeg > 180) {
		return fmt.Errorf("pivot maxAngle must be in (0, 180] degrees")
	}

	o := c.Observers
	if o.Contacts != nil && (o.Contacts.File == "" || o.Contacts.RContact <= 0) {
		return fmt.Errorf("contacts observer needs a file and rContact greater than 0")
	}
	if w := o.CMDisplacement; w != nil && (w.File == "" || w.Window <= 0) {
		return fmt.Errorf("cmDisplacement observer needs a file and a positive window")
	}
	if w := o.REndAutocorr; w != nil && (w.File == "" || w.Window <= 0) {
		return fmt.Errorf("rEndAutocorr observer needs a file and a positive window")
	}
	return nil
}

// bondLength returns the configured bond length or the usual 3.8.
func (c *Cfg) bondLength() float64 {
	if c.BondLength > 0 {
		return c.BondLength
	}
	return 3.8
}

// terms builds the configured energy terms for a given space.
func (c *Cfg) terms(sp *quant.Space) *energy.Total {
	total := energy.NewTotal()
	if ev := c.Energy.ExcludedVolume; ev != nil {
		total.Add(energy.NewNonBonded(energy.NewExcludedVolume(sp, ev.RRep, ev.EPenalty)), weight(ev.Weight))
	}
	if ct := c.Energy.Contact; ct != nil {
		total.Add(energy.NewNonBonded(
			energy.NewCaContact(sp, ct.RRep, ct.RMin, ct.RMax, ct.ERep, ct.ECont)), weight(ct.Weight))
	}
	if h := c.Energy.Harmonic; h != nil {
		total.Add(energy.NewSimpleHarmonic(h.K, h.R0), weight(h.Weight))
	}
	return total
}
