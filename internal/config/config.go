// Package config loads the run configuration of the digit classifier.
//
// A configuration file is YAML with five sections:
//
//	data:
//	  dir: ./data
//	  train_limit: 0
//	  test_limit: 0
//	model:
//	  hidden: 100
//	  init: xavier
//	train:
//	  epochs: 3
//	  batch_size: 10
//	  learning_rate: 0.01
//	view:
//	  enabled: false
//	checkpoint:
//	  save: model.safetensors
//
// Missing keys keep their Default values. Command-line flags are applied on
// top through ApplyOverrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/digitnet/internal/dataset"
	"github.com/born-ml/digitnet/internal/nn"
	"github.com/born-ml/digitnet/internal/trainer"
)

// Config captures the knobs of one run.
type Config struct {
	Data       Data       `yaml:"data"`
	Model      Model      `yaml:"model"`
	Train      Train      `yaml:"train"`
	View       View       `yaml:"view"`
	Checkpoint Checkpoint `yaml:"checkpoint"`
}

// Data selects where samples come from.
type Data struct {
	Dir              string `yaml:"dir"`
	TrainLimit       int    `yaml:"train_limit"` // 0 keeps every sample
	TestLimit        int    `yaml:"test_limit"`
	Synthetic        bool   `yaml:"synthetic"`
	SyntheticSamples int    `yaml:"synthetic_samples"`
}

// Model describes the network shape and its initialization.
type Model struct {
	Hidden    int     `yaml:"hidden"`
	Init      string  `yaml:"init"`
	InitScale float64 `yaml:"init_scale"` // 0 selects the initializer default
	Seed      int64   `yaml:"seed"`
}

// Train holds the session settings.
type Train struct {
	Epochs          int     `yaml:"epochs"`
	BatchSize       int     `yaml:"batch_size"`
	BatchesPerEpoch int     `yaml:"batches_per_epoch"`
	LearningRate    float64 `yaml:"learning_rate"`
	BatchMode       string  `yaml:"batch_mode"`
	EvalMode        string  `yaml:"eval_mode"`
	InputScale      float64 `yaml:"input_scale"`
	LogEvery        int     `yaml:"log_every"`
}

// View controls the interactive viewer shown after testing.
type View struct {
	Enabled       bool `yaml:"enabled"`
	Misclassified bool `yaml:"misclassified"`
}

// Checkpoint names the files parameters are written to and read from.
type Checkpoint struct {
	Save string `yaml:"save"`
	Load string `yaml:"load"`
}

// Default returns the reference configuration.
func Default() *Config {
	tc := trainer.DefaultConfig()
	return &Config{
		Data: Data{
			Dir:              "data",
			SyntheticSamples: 1000,
		},
		Model: Model{
			Hidden: tc.Sizes.Hidden,
			Init:   "xavier",
			Seed:   1,
		},
		Train: Train{
			Epochs:       tc.Epochs,
			BatchSize:    tc.BatchSize,
			LearningRate: tc.LearningRate,
			BatchMode:    string(tc.BatchMode),
			EvalMode:     string(tc.EvalMode),
			InputScale:   tc.InputScale,
			LogEvery:     tc.LogEvery,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML from r over the defaults. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// A document with no nodes (empty or comments only) keeps the defaults.
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// Overrides captures CLI supplied values. Zero values and nil pointers are
// left alone.
type Overrides struct {
	DataDir       string
	Synthetic     bool
	Epochs        *int
	BatchSize     int
	LearningRate  float64
	Init          string
	Seed          *int64
	BatchMode     string
	EvalMode      string
	Save          string
	Load          string
	View          bool
	Misclassified bool
}

// ApplyOverrides updates c using any set override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.DataDir != "" {
		c.Data.Dir = o.DataDir
	}
	if o.Synthetic {
		c.Data.Synthetic = true
	}
	if o.Epochs != nil {
		c.Train.Epochs = *o.Epochs
	}
	if o.BatchSize > 0 {
		c.Train.BatchSize = o.BatchSize
	}
	if o.LearningRate > 0 {
		c.Train.LearningRate = o.LearningRate
	}
	if o.Init != "" {
		c.Model.Init = o.Init
	}
	if o.Seed != nil {
		c.Model.Seed = *o.Seed
	}
	if o.BatchMode != "" {
		c.Train.BatchMode = o.BatchMode
	}
	if o.EvalMode != "" {
		c.Train.EvalMode = o.EvalMode
	}
	if o.Save != "" {
		c.Checkpoint.Save = o.Save
	}
	if o.Load != "" {
		c.Checkpoint.Load = o.Load
	}
	if o.View {
		c.View.Enabled = true
	}
	if o.Misclassified {
		c.View.Enabled = true
		c.View.Misclassified = true
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if !c.Data.Synthetic && c.Data.Dir == "" {
		return errors.New("data.dir must be set unless data.synthetic is enabled")
	}
	if c.Data.TrainLimit < 0 || c.Data.TestLimit < 0 {
		return fmt.Errorf("data limits must be >= 0 (got %d, %d)", c.Data.TrainLimit, c.Data.TestLimit)
	}
	if c.Data.Synthetic && c.Data.SyntheticSamples <= 0 {
		return fmt.Errorf("data.synthetic_samples must be > 0 (got %d)", c.Data.SyntheticSamples)
	}
	if c.Model.InitScale < 0 {
		return fmt.Errorf("model.init_scale must be >= 0 (got %g)", c.Model.InitScale)
	}
	if !knownInitializer(c.Model.Init) {
		return fmt.Errorf("model.init %q is not one of %s", c.Model.Init, strings.Join(nn.InitializerNames, ", "))
	}
	if err := c.TrainerConfig().Validate(); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	return nil
}

func knownInitializer(name string) bool {
	_, err := nn.NewInitializer(name, 0, 0)
	return err == nil
}

// Sizes returns the network shape: the dataset's image and class sizes
// around the configured hidden width.
func (c *Config) Sizes() nn.Sizes {
	return nn.Sizes{Input: dataset.ImageSize, Hidden: c.Model.Hidden, Output: dataset.NumClasses}
}

// TrainerConfig converts the train section into a session configuration.
func (c *Config) TrainerConfig() trainer.Config {
	return trainer.Config{
		Sizes:           c.Sizes(),
		LearningRate:    c.Train.LearningRate,
		Epochs:          c.Train.Epochs,
		BatchSize:       c.Train.BatchSize,
		BatchesPerEpoch: c.Train.BatchesPerEpoch,
		BatchMode:       trainer.BatchMode(c.Train.BatchMode),
		EvalMode:        trainer.EvalMode(c.Train.EvalMode),
		InputScale:      c.Train.InputScale,
		LogEvery:        c.Train.LogEvery,
	}
}

// Initializer builds the configured weight initializer.
func (c *Config) Initializer() (nn.Initializer, error) {
	return nn.NewInitializer(c.Model.Init, c.Model.InitScale, c.Model.Seed)
}
