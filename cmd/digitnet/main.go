// Package main provides the digitnet CLI: train a 784-100-10 digit classifier,
// test it, and optionally browse the test predictions.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/born-ml/digitnet/internal/config"
	"github.com/born-ml/digitnet/internal/dataset"
	"github.com/born-ml/digitnet/internal/display"
	"github.com/born-ml/digitnet/internal/nn"
	"github.com/born-ml/digitnet/internal/serialization"
	"github.com/born-ml/digitnet/internal/trainer"
)

const version = "v0.1.0"

func main() {
	logger := log.New(os.Stderr, "digitnet: ", log.LstdFlags)
	if err := run(os.Args[1:], os.Stdin, os.Stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Fatalf("%v", err)
	}
}

// run parses args, trains, tests and optionally views. The viewer reads
// commands from in and draws to out.
func run(args []string, in io.Reader, out io.Writer, logger *log.Logger) error {
	flags := flag.NewFlagSet("digitnet", flag.ContinueOnError)
	configPath := flags.String("config", "", "YAML configuration file")
	dataDir := flags.String("data", "", "Directory containing the IDX dataset files")
	epochs := flags.Int("epochs", 0, "Number of training epochs (0 with -load evaluates only)")
	batchSize := flags.Int("batch", 0, "Samples per batch")
	lr := flags.Float64("lr", 0, "Learning rate")
	initName := flags.String("init", "", "Weight initializer: zero, uniform, gaussian, xavier")
	seed := flags.Int64("seed", 0, "Seed for weight initialization and synthetic data")
	batchMode := flags.String("batch-mode", "", "per-sample or accumulate")
	evalMode := flags.String("eval-mode", "", "inference or update")
	synthetic := flags.Bool("synthetic", false, "Use synthetic data (for testing without dataset files)")
	save := flags.String("save", "", "Write the trained parameters to this SafeTensors file")
	load := flags.String("load", "", "Read initial parameters from this SafeTensors file")
	view := flags.Bool("view", false, "Browse test predictions after testing")
	misclassified := flags.Bool("misclassified", false, "Browse only misclassified test samples")
	showVersion := flags.Bool("version", false, "Print version and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *showVersion {
		fmt.Fprintf(out, "digitnet %s\n", version)
		return nil
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	o := config.Overrides{
		DataDir:       *dataDir,
		Synthetic:     *synthetic,
		BatchSize:     *batchSize,
		LearningRate:  *lr,
		Init:          *initName,
		BatchMode:     *batchMode,
		EvalMode:      *evalMode,
		Save:          *save,
		Load:          *load,
		View:          *view,
		Misclassified: *misclassified,
	}
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "epochs":
			o.Epochs = epochs
		case "seed":
			o.Seed = seed
		}
	})
	cfg.ApplyOverrides(o)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	runID := uuid.NewString()
	logger.Printf("run=%s version=%s", runID, version)

	train, test, err := loadData(cfg, logger)
	if err != nil {
		return err
	}

	initializer, err := cfg.Initializer()
	if err != nil {
		return err
	}
	net, err := nn.NewNetwork(cfg.Sizes(), initializer)
	if err != nil {
		return fmt.Errorf("failed to create network: %w", err)
	}
	if cfg.Checkpoint.Load != "" {
		info, err := serialization.LoadNetwork(cfg.Checkpoint.Load, net)
		if err != nil {
			return err
		}
		logger.Printf("loaded %s run=%s epochs=%d test_acc=%.4f", cfg.Checkpoint.Load, info.RunID, info.Epochs, info.TestAccuracy)
	} else {
		logger.Printf("init=%s sizes=%d-%d-%d", initializer.Name(), cfg.Sizes().Input, cfg.Sizes().Hidden, cfg.Sizes().Output)
	}

	session, err := trainer.NewSession(cfg.TrainerConfig(), net, logger)
	if err != nil {
		return err
	}
	report, eval, err := session.Run(train, test)
	if err != nil {
		return err
	}
	logger.Printf("run=%s %s", runID, report)

	if cfg.Checkpoint.Save != "" {
		info, err := serialization.SaveNetwork(cfg.Checkpoint.Save, net, serialization.Info{
			RunID:         runID,
			Initializer:   initializer.Name(),
			Epochs:        len(report.EpochAccuracy),
			TrainAccuracy: report.TrainAccuracy,
			TestAccuracy:  report.TestAccuracy,
		})
		if err != nil {
			return err
		}
		logger.Printf("saved %s run=%s", cfg.Checkpoint.Save, info.RunID)
	}

	if cfg.View.Enabled {
		v := &display.Viewer{In: in, Out: out, OnlyMisclassified: cfg.View.Misclassified}
		if err := v.Run(eval); err != nil {
			return fmt.Errorf("viewer: %w", err)
		}
	}
	return nil
}

func loadData(cfg *config.Config, logger *log.Logger) (train, test *dataset.Set, err error) {
	if cfg.Data.Synthetic {
		n := cfg.Data.SyntheticSamples
		train = dataset.Synthetic(n, cfg.Model.Seed).Limit(cfg.Data.TrainLimit)
		test = dataset.Synthetic(n/5+1, cfg.Model.Seed+1).Limit(cfg.Data.TestLimit)
		logger.Printf("data=synthetic train=%d test=%d", train.Len(), test.Len())
		return train, test, nil
	}

	imgs, lbls := dataset.Files(cfg.Data.Dir, true)
	if train, err = dataset.Load(imgs, lbls, cfg.Data.TrainLimit); err != nil {
		return nil, nil, dataHint(err)
	}
	imgs, lbls = dataset.Files(cfg.Data.Dir, false)
	if test, err = dataset.Load(imgs, lbls, cfg.Data.TestLimit); err != nil {
		return nil, nil, dataHint(err)
	}
	logger.Printf("data=%s train=%d test=%d", cfg.Data.Dir, train.Len(), test.Len())
	return train, test, nil
}

func dataHint(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w (place %s, %s, %s and %s, optionally gzipped, in the data directory or run with -synthetic)",
			err, dataset.TrainImagesFile, dataset.TrainLabelsFile, dataset.TestImagesFile, dataset.TestLabelsFile)
	}
	return err
}
