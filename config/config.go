//Package config provides configuration loading, defaults, and validation for
//the gorif scorer, the clustering engine and the command line tool.
package config

import (
	"fmt"

	rif "github.com/rmera/gorif"
	"github.com/rmera/gorif/logging"
)

//Config is the root configuration.
type Config struct {
	Scorer  ScorerConfig      `mapstructure:"scorer" yaml:"scorer"`
	Cluster ClusterConfig     `mapstructure:"cluster" yaml:"cluster"`
	Log     logging.LogConfig `mapstructure:"log" yaml:"log"`
}

//ScorerConfig holds the weights of the rotamer-vs-target scorer.
type ScorerConfig struct {
	HBondWeight                 float64 `mapstructure:"hbond_weight" yaml:"hbond_weight"`
	UpweightIface               float64 `mapstructure:"upweight_iface" yaml:"upweight_iface"`
	UpweightMultiHBond          float64 `mapstructure:"upweight_multi_hbond" yaml:"upweight_multi_hbond"`
	MinHBQualityForMulti        float64 `mapstructure:"min_hb_quality_for_multi" yaml:"min_hb_quality_for_multi"`
	MinHBQualityForSatisfaction float64 `mapstructure:"min_hb_quality_for_satisfaction" yaml:"min_hb_quality_for_satisfaction"`
	LongHBondFudgeDistance      float64 `mapstructure:"long_hbond_fudge_distance" yaml:"long_hbond_fudge_distance"`

	//BadScoreThresh and StartAtom are passed on each ScoreRotamerSat call.
	BadScoreThresh float64 `mapstructure:"bad_score_thresh" yaml:"bad_score_thresh"`
	StartAtom      int     `mapstructure:"start_atom" yaml:"start_atom"`
}

//ClusterConfig selects how an ensemble of poses is reduced.
type ClusterConfig struct {
	//Method is one of "frac", "n" or "random".
	Method string  `mapstructure:"method" yaml:"method"`
	N      int     `mapstructure:"n" yaml:"n"`
	Frac   float64 `mapstructure:"frac" yaml:"frac"`
	Tol    float64 `mapstructure:"tol" yaml:"tol"`

	//Cpus is the number of RMSD and scoring workers. 0 means one per CPU.
	Cpus int `mapstructure:"cpus" yaml:"cpus"`

	//Seed for random selection. 0 means seeded from the clock.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

//Apply copies the weights into s. The per-call threshold and start atom are not
//part of the scorer and are left to the caller.
func (c ScorerConfig) Apply(s *rif.ScoreRotamerVsTarget) {
	if s == nil {
		return
	}
	s.HBondWeight = c.HBondWeight
	s.UpweightIface = c.UpweightIface
	s.UpweightMultiHBond = c.UpweightMultiHBond
	s.MinHBQualityForMulti = c.MinHBQualityForMulti
	s.MinHBQualityForSatisfaction = c.MinHBQualityForSatisfaction
	s.LongHBondFudgeDistance = c.LongHBondFudgeDistance
}

//Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	//Scorer
	if c.Scorer.HBondWeight < 0 {
		return fmt.Errorf("config: scorer.hbond_weight must be ≥ 0, got %v", c.Scorer.HBondWeight)
	}
	if c.Scorer.UpweightIface <= 0 {
		return fmt.Errorf("config: scorer.upweight_iface must be > 0, got %v", c.Scorer.UpweightIface)
	}
	if c.Scorer.LongHBondFudgeDistance < 0 {
		return fmt.Errorf("config: scorer.long_hbond_fudge_distance must be ≥ 0, got %v", c.Scorer.LongHBondFudgeDistance)
	}
	if c.Scorer.StartAtom < 0 {
		return fmt.Errorf("config: scorer.start_atom must be ≥ 0, got %d", c.Scorer.StartAtom)
	}

	//Cluster
	switch c.Cluster.Method {
	case MethodFrac, MethodN, MethodRandom:
	default:
		return fmt.Errorf("config: cluster.method %q is invalid; expected frac|n|random", c.Cluster.Method)
	}
	if c.Cluster.N < 1 {
		return fmt.Errorf("config: cluster.n must be ≥ 1, got %d", c.Cluster.N)
	}
	if c.Cluster.Frac <= 0 || c.Cluster.Frac > 1 {
		return fmt.Errorf("config: cluster.frac %v is out of range (0, 1]", c.Cluster.Frac)
	}
	if c.Cluster.Tol < 0 {
		return fmt.Errorf("config: cluster.tol must be ≥ 0, got %v", c.Cluster.Tol)
	}
	if c.Cluster.Cpus < 0 {
		return fmt.Errorf("config: cluster.cpus must be ≥ 0, got %d", c.Cluster.Cpus)
	}

	//Log
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}
	return nil
}
