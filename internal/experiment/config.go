package experiment

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/saddle-ml/saddle/internal/prox"
)

// Method selects the solver variant for a run.
const (
	MethodFBF     = "fbf"
	MethodFBFAdam = "fbfadam"
)

// PlayerSettings configures one player of a run.
type PlayerSettings struct {
	// LR is the player's step size. Zero means 1/Lipschitz where the
	// problem can provide a Lipschitz constant.
	LR float64 `mapstructure:"lr" json:"lr"`
	// Prox names the proximal operator: "none", "1norm" or "clip".
	Prox string `mapstructure:"prox" json:"prox"`
	// ProxParam is the regularization strength for "1norm" or the radius
	// for "clip".
	ProxParam float64 `mapstructure:"proxParam" json:"proxParam"`
}

// Config holds every knob of a single run. Construct it once per run and
// pass it by reference; there is no process-wide configuration state.
type Config struct {
	Seed      int64          `mapstructure:"seed" json:"seed"`
	Dim       int            `mapstructure:"dim" json:"dim"`
	Method    string         `mapstructure:"method" json:"method"`
	MaxIter   int            `mapstructure:"maxIter" json:"maxIter"`
	EvalFreq  int            `mapstructure:"evalFreq" json:"evalFreq"`
	Tolerance float64        `mapstructure:"tolerance" json:"tolerance"`
	Beta1     float64        `mapstructure:"beta1" json:"beta1"`
	Beta2     float64        `mapstructure:"beta2" json:"beta2"`
	Epsilon   float64        `mapstructure:"epsilon" json:"epsilon"`
	Inertia   float64        `mapstructure:"inertia" json:"inertia"`
	EMADecay  float64        `mapstructure:"emaDecay" json:"emaDecay"`
	X         PlayerSettings `mapstructure:"x" json:"x"`
	Y         PlayerSettings `mapstructure:"y" json:"y"`
	OutputDir string         `mapstructure:"outputDir" json:"outputDir"`
}

// DefaultConfig returns the default matrix-game configuration.
func DefaultConfig() Config {
	return Config{
		Seed:      1318,
		Dim:       500,
		Method:    MethodFBF,
		MaxIter:   100000,
		EvalFreq:  10000,
		Tolerance: 1e-10,
		Beta1:     0.5,
		Beta2:     0.9,
		Epsilon:   1e-8,
		EMADecay:  0.9999,
	}
}

// LoadConfig reads a JSON config file into a Config, starting from the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration before a run starts, so a bad value
// fails fast instead of mid-sweep.
func (c *Config) Validate() error {
	if c.Dim <= 0 {
		return errors.Errorf("config: dim must be positive, got %d", c.Dim)
	}
	if c.MaxIter <= 0 {
		return errors.Errorf("config: maxIter must be positive, got %d", c.MaxIter)
	}
	if c.Method != MethodFBF && c.Method != MethodFBFAdam {
		return errors.Errorf("config: unknown method %q", c.Method)
	}
	if c.Inertia < 0 || c.Inertia >= 1 {
		return errors.Errorf("config: inertia %v outside allowed range [0, 1)", c.Inertia)
	}
	if c.Beta1 < 0 || c.Beta1 >= 1 || c.Beta2 < 0 || c.Beta2 >= 1 {
		return errors.Errorf("config: betas (%v, %v) outside allowed range [0, 1)", c.Beta1, c.Beta2)
	}
	if c.X.LR < 0 || c.Y.LR < 0 {
		return errors.New("config: learning rates must be nonnegative")
	}
	if _, err := prox.Parse(c.X.Prox, c.X.ProxParam); err != nil {
		return errors.Wrap(err, "config: player x")
	}
	if _, err := prox.Parse(c.Y.Prox, c.Y.ProxParam); err != nil {
		return errors.Wrap(err, "config: player y")
	}
	return nil
}

// WriteJSON dumps the resolved configuration next to the run's results so
// every output directory is self-describing.
func (c *Config) WriteJSON(dir string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
