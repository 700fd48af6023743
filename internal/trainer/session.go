package trainer

import (
	"errors"
	"fmt"

	"github.com/born-ml/digitnet/internal/dataset"
	"github.com/born-ml/digitnet/internal/matrix"
	"github.com/born-ml/digitnet/internal/metrics"
	"github.com/born-ml/digitnet/internal/nn"
	"github.com/born-ml/digitnet/internal/optim"
)

// Logger receives progress lines. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

type discard struct{}

func (discard) Printf(string, ...any) {}

// ErrPhase is returned when an operation is not valid in the current phase.
var ErrPhase = errors.New("invalid session phase")

// Session drives one training and testing run of a network.
//
// The session is the only owner of the network's parameters while it runs;
// it is not safe for concurrent use.
type Session struct {
	cfg   Config
	net   *nn.Network
	opt   optim.Optimizer
	acc   optim.Accumulator
	state State
	log   Logger

	perEpoch int // training samples per epoch, set by Train
}

// NewSession creates an idle session for net. A nil logger discards output.
func NewSession(cfg Config, net *nn.Network, logger Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if net.Sizes() != cfg.Sizes {
		return nil, fmt.Errorf("network sizes %v do not match config %v", net.Sizes(), cfg.Sizes)
	}
	if logger == nil {
		logger = discard{}
	}
	return &Session{
		cfg: cfg,
		net: net,
		opt: optim.NewSGD(optim.SGDConfig{LR: cfg.LearningRate}),
		log: logger,
	}, nil
}

// Config returns the session configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// Network returns the network being trained.
func (s *Session) Network() *nn.Network {
	return s.net
}

// State returns a snapshot of the session progress.
func (s *Session) State() State {
	st := s.state
	st.EpochAccuracy = append([]float64(nil), s.state.EpochAccuracy...)
	st.EpochCost = append([]float64(nil), s.state.EpochCost...)
	st.Predictions = append([]int(nil), s.state.Predictions...)
	return st
}

// Start moves an idle session into the training phase.
func (s *Session) Start() error {
	if s.state.Phase != Idle {
		return fmt.Errorf("%w: start from %s", ErrPhase, s.state.Phase)
	}
	s.state.Phase = Training
	s.state.resetPass()
	return nil
}

// StepResult is the outcome of one sample.
type StepResult struct {
	Predicted int
	Cost      float64
	Correct   bool
}

// Step processes one sample in the current phase.
//
// The sample becomes an input column and a one-hot target; the network runs
// forward, the cost is computed, and, unless the session is testing in
// inference mode, the backward pass and the parameter update follow. The
// argmax of the output is compared with the label. While testing, the
// prediction is stored at the cursor position.
//
// Step advances the cursor. A dimension error aborts with a returned error.
func (s *Session) Step(sample dataset.Sample) (StepResult, error) {
	var update bool
	switch s.state.Phase {
	case Training:
		update = true
	case Testing:
		update = s.cfg.EvalMode == UpdateDuringEval
	default:
		return StepResult{}, fmt.Errorf("%w: step while %s", ErrPhase, s.state.Phase)
	}

	input, target, err := s.encode(sample)
	if err != nil {
		return StepResult{}, err
	}

	var (
		res      StepResult
		applyErr error
	)
	err = matrix.Guard(func() {
		act := s.net.Forward(input)
		res.Cost = nn.MeanSquaredError(act.Output, target)
		res.Predicted = matrix.Argmax(act.Output)
		if update {
			applyErr = s.apply(s.net.Backward(act, target))
		}
	})
	if err == nil {
		err = applyErr
	}
	if err != nil {
		return StepResult{}, fmt.Errorf("sample %d: %w", s.state.Cursor, err)
	}

	res.Correct = res.Predicted == sample.Label
	s.state.Score.Observe(res.Predicted, sample.Label)
	s.state.Cost = res.Cost
	s.state.CostSum += res.Cost
	if s.state.Phase == Testing && s.state.Cursor < len(s.state.Predictions) {
		s.state.Predictions[s.state.Cursor] = res.Predicted
	}
	s.state.Cursor++
	return res, nil
}

// encode builds the Input×1 column and the Output×1 one-hot target.
func (s *Session) encode(sample dataset.Sample) (*matrix.Matrix, *matrix.Matrix, error) {
	pixels := sample.Pixels
	if s.cfg.InputScale != 1 {
		pixels = make([]float64, len(sample.Pixels))
		for i, p := range sample.Pixels {
			pixels[i] = p * s.cfg.InputScale
		}
	}
	input, err := matrix.Column(pixels)
	if err != nil {
		return nil, nil, fmt.Errorf("sample %d: input: %w", s.state.Cursor, err)
	}
	target, err := matrix.OneHot(sample.Label, s.cfg.Sizes.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("sample %d: target: %w", s.state.Cursor, err)
	}
	return input, target, nil
}

// apply hands the gradients to the optimizer, or to the accumulator in
// Accumulate mode until a full batch is collected.
func (s *Session) apply(grads nn.Gradients) error {
	if s.cfg.BatchMode == PerSample {
		return s.opt.Step(s.net.Parameters(), grads.List())
	}
	s.acc.Add(grads.List())
	if s.acc.Count() < s.cfg.BatchSize {
		return nil
	}
	return s.flush()
}

// flush applies any pending accumulated gradients.
func (s *Session) flush() error {
	if s.acc.Count() == 0 {
		return nil
	}
	mean := s.acc.Mean()
	s.acc.Reset()
	return s.opt.Step(s.net.Parameters(), mean)
}

// Train runs the configured epochs over set.
//
// Each epoch processes BatchesPerEpoch × BatchSize samples from the start of
// the set and records correct/samples as the epoch accuracy.
func (s *Session) Train(set *dataset.Set) error {
	if err := s.Start(); err != nil {
		return err
	}
	if s.cfg.Epochs == 0 {
		return nil
	}

	perEpoch, err := s.cfg.samplesPerEpoch(set.Len())
	if err != nil {
		return err
	}
	s.perEpoch = perEpoch

	for epoch := 0; epoch < s.cfg.Epochs; epoch++ {
		s.state.resetPass()
		for s.state.Cursor < perEpoch {
			res, err := s.Step(set.Sample(s.state.Cursor))
			if err != nil {
				return fmt.Errorf("epoch %d: %w", epoch+1, err)
			}
			if s.cfg.LogEvery > 0 && s.state.Cursor%s.cfg.LogEvery == 0 {
				s.log.Printf("epoch=%d sample=%d cost=%.6f acc=%.4f",
					epoch+1, s.state.Cursor, res.Cost, s.state.Score.Accuracy())
			}
		}
		if err := s.flush(); err != nil {
			return fmt.Errorf("epoch %d: %w", epoch+1, err)
		}

		acc := s.state.Score.Accuracy()
		cost := s.state.CostSum / float64(perEpoch)
		s.state.EpochAccuracy = append(s.state.EpochAccuracy, acc)
		s.state.EpochCost = append(s.state.EpochCost, cost)
		s.state.Epoch++
		s.log.Printf("epoch=%d/%d samples=%d acc=%.4f cost=%.6f", epoch+1, s.cfg.Epochs, perEpoch, acc, cost)
	}
	return nil
}

// Evaluate runs the testing phase once over the whole set and moves the
// session to Done. It may follow Train or start from an idle session (for a
// network restored from a checkpoint).
func (s *Session) Evaluate(set *dataset.Set) (*Evaluation, error) {
	if s.state.Phase != Idle && s.state.Phase != Training {
		return nil, fmt.Errorf("%w: evaluate from %s", ErrPhase, s.state.Phase)
	}
	s.state.Phase = Testing
	s.state.resetPass()
	s.state.Predictions = make([]int, set.Len())

	for s.state.Cursor < set.Len() {
		if _, err := s.Step(set.Sample(s.state.Cursor)); err != nil {
			return nil, fmt.Errorf("testing: %w", err)
		}
	}
	if err := s.flush(); err != nil {
		return nil, fmt.Errorf("testing: %w", err)
	}
	s.state.Phase = Done

	eval := &Evaluation{
		Labels:      set.Labels,
		Predictions: s.state.Predictions,
		Images:      set.Images,
		Correct:     s.state.Score.Correct,
	}
	if set.Len() > 0 {
		eval.MeanCost = s.state.CostSum / float64(set.Len())
	}
	s.log.Printf("test samples=%d acc=%.4f cost=%.6f", eval.Len(), eval.Accuracy(), eval.MeanCost)
	return eval, nil
}

// Run trains on train, evaluates on test and returns the report together
// with the per-sample evaluation.
func (s *Session) Run(train, test *dataset.Set) (*metrics.Report, *Evaluation, error) {
	if err := s.Train(train); err != nil {
		return nil, nil, fmt.Errorf("training: %w", err)
	}
	eval, err := s.Evaluate(test)
	if err != nil {
		return nil, nil, err
	}
	return s.Report(eval), eval, nil
}

// Report summarizes the session state and eval.
func (s *Session) Report(eval *Evaluation) *metrics.Report {
	report := &metrics.Report{
		EpochAccuracy: append([]float64(nil), s.state.EpochAccuracy...),
		EpochCost:     append([]float64(nil), s.state.EpochCost...),
		FinalCost:     s.state.Cost,
		TrainSamples:  s.perEpoch,
	}
	if eval != nil {
		report.TestAccuracy = eval.Accuracy()
		report.TestCost = eval.MeanCost
		report.TestSamples = eval.Len()
	}
	report.Finish()
	return report
}
