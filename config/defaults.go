package config

import (
	"github.com/rmera/gorif/logging"
	"github.com/spf13/viper"
)

//Clustering methods.
const (
	MethodFrac   = "frac"
	MethodN      = "n"
	MethodRandom = "random"
)

const (
	DefaultHBondWeight                 = 2.0
	DefaultUpweightIface               = 1.0
	DefaultUpweightMultiHBond          = 0.0
	DefaultMinHBQualityForMulti        = -0.5
	DefaultMinHBQualityForSatisfaction = -0.6
	DefaultLongHBondFudgeDistance      = 0.0
	DefaultBadScoreThresh              = 10.0
	DefaultStartAtom                   = 0

	DefaultClusterMethod = MethodFrac
	DefaultClusterN      = 10
	DefaultClusterFrac   = 0.5
	DefaultClusterTol    = 0.05

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

//DefaultLogOutput is where logs go unless told otherwise.
var DefaultLogOutput = []string{"stderr"}

//Default returns a Config holding every default value.
func Default() *Config {
	return &Config{
		Scorer: ScorerConfig{
			HBondWeight:                 DefaultHBondWeight,
			UpweightIface:               DefaultUpweightIface,
			UpweightMultiHBond:          DefaultUpweightMultiHBond,
			MinHBQualityForMulti:        DefaultMinHBQualityForMulti,
			MinHBQualityForSatisfaction: DefaultMinHBQualityForSatisfaction,
			LongHBondFudgeDistance:      DefaultLongHBondFudgeDistance,
			BadScoreThresh:              DefaultBadScoreThresh,
			StartAtom:                   DefaultStartAtom,
		},
		Cluster: ClusterConfig{
			Method: DefaultClusterMethod,
			N:      DefaultClusterN,
			Frac:   DefaultClusterFrac,
			Tol:    DefaultClusterTol,
		},
		Log: logging.LogConfig{
			Level:       DefaultLogLevel,
			Format:      DefaultLogFormat,
			OutputPaths: append([]string(nil), DefaultLogOutput...),
		},
	}
}

//setDefaults registers every default with v. Zero is a meaningful value for
//several scorer weights, so those are only defaulted here, where an explicit
//zero in a file or the environment still wins.
func setDefaults(v *viper.Viper) {
	v.SetDefault("scorer.hbond_weight", DefaultHBondWeight)
	v.SetDefault("scorer.upweight_iface", DefaultUpweightIface)
	v.SetDefault("scorer.upweight_multi_hbond", DefaultUpweightMultiHBond)
	v.SetDefault("scorer.min_hb_quality_for_multi", DefaultMinHBQualityForMulti)
	v.SetDefault("scorer.min_hb_quality_for_satisfaction", DefaultMinHBQualityForSatisfaction)
	v.SetDefault("scorer.long_hbond_fudge_distance", DefaultLongHBondFudgeDistance)
	v.SetDefault("scorer.bad_score_thresh", DefaultBadScoreThresh)
	v.SetDefault("scorer.start_atom", DefaultStartAtom)

	v.SetDefault("cluster.method", DefaultClusterMethod)
	v.SetDefault("cluster.n", DefaultClusterN)
	v.SetDefault("cluster.frac", DefaultClusterFrac)
	v.SetDefault("cluster.tol", DefaultClusterTol)
	v.SetDefault("cluster.cpus", 0)
	v.SetDefault("cluster.seed", 0)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output_paths", DefaultLogOutput)
}

//ApplyDefaults fills the zero-value fields of cfg for which zero is not a
//valid setting. Fields already set are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Scorer.UpweightIface == 0 {
		cfg.Scorer.UpweightIface = DefaultUpweightIface
	}
	if cfg.Cluster.Method == "" {
		cfg.Cluster.Method = DefaultClusterMethod
	}
	if cfg.Cluster.N == 0 {
		cfg.Cluster.N = DefaultClusterN
	}
	if cfg.Cluster.Frac == 0 {
		cfg.Cluster.Frac = DefaultClusterFrac
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = append([]string(nil), DefaultLogOutput...)
	}
}
