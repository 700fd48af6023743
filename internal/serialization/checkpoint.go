package serialization

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/born-ml/digitnet/internal/nn"
)

// Metadata keys written by SaveNetwork.
const (
	MetaFormat        = "format"
	MetaRunID         = "run_id"
	MetaCreated       = "created"
	MetaSizes         = "sizes"
	MetaInitializer   = "initializer"
	MetaEpochs        = "epochs"
	MetaTrainAccuracy = "train_accuracy"
	MetaTestAccuracy  = "test_accuracy"
)

// FormatName identifies checkpoints written by this package.
const FormatName = "digitnet"

// Info describes the run a checkpoint came from.
type Info struct {
	RunID         string // generated when empty
	Created       time.Time
	Sizes         nn.Sizes
	Initializer   string
	Epochs        int
	TrainAccuracy float64
	TestAccuracy  float64
}

func (i Info) metadata() map[string]string {
	return map[string]string{
		MetaFormat:        FormatName,
		MetaRunID:         i.RunID,
		MetaCreated:       i.Created.UTC().Format(time.RFC3339),
		MetaSizes:         fmt.Sprintf("%d-%d-%d", i.Sizes.Input, i.Sizes.Hidden, i.Sizes.Output),
		MetaInitializer:   i.Initializer,
		MetaEpochs:        strconv.Itoa(i.Epochs),
		MetaTrainAccuracy: strconv.FormatFloat(i.TrainAccuracy, 'f', -1, 64),
		MetaTestAccuracy:  strconv.FormatFloat(i.TestAccuracy, 'f', -1, 64),
	}
}

func parseInfo(meta map[string]string) (Info, error) {
	var (
		info Info
		err  error
	)
	info.RunID = meta[MetaRunID]
	info.Initializer = meta[MetaInitializer]
	if v, ok := meta[MetaCreated]; ok {
		if info.Created, err = time.Parse(time.RFC3339, v); err != nil {
			return info, fmt.Errorf("metadata %s: %w", MetaCreated, err)
		}
	}
	if v, ok := meta[MetaSizes]; ok {
		if _, err = fmt.Sscanf(v, "%d-%d-%d", &info.Sizes.Input, &info.Sizes.Hidden, &info.Sizes.Output); err != nil {
			return info, fmt.Errorf("metadata %s: %w", MetaSizes, err)
		}
	}
	if v, ok := meta[MetaEpochs]; ok {
		if info.Epochs, err = strconv.Atoi(v); err != nil {
			return info, fmt.Errorf("metadata %s: %w", MetaEpochs, err)
		}
	}
	if v, ok := meta[MetaTrainAccuracy]; ok {
		if info.TrainAccuracy, err = strconv.ParseFloat(v, 64); err != nil {
			return info, fmt.Errorf("metadata %s: %w", MetaTrainAccuracy, err)
		}
	}
	if v, ok := meta[MetaTestAccuracy]; ok {
		if info.TestAccuracy, err = strconv.ParseFloat(v, 64); err != nil {
			return info, fmt.Errorf("metadata %s: %w", MetaTestAccuracy, err)
		}
	}
	return info, nil
}

// SaveNetwork writes the parameters of net to path. The returned Info has
// RunID, Created and Sizes filled in.
func SaveNetwork(path string, net *nn.Network, info Info) (Info, error) {
	if info.RunID == "" {
		info.RunID = uuid.NewString()
	}
	if info.Created.IsZero() {
		info.Created = time.Now()
	}
	info.Sizes = net.Sizes()

	if err := WriteSafeTensors(path, net.StateDict(), info.metadata()); err != nil {
		return info, fmt.Errorf("save %s: %w", path, err)
	}
	return info, nil
}

// LoadNetwork restores the parameters of net from path. Missing or
// mis-shaped parameters leave net unchanged.
func LoadNetwork(path string, net *nn.Network) (Info, error) {
	file, err := ReadSafeTensors(path)
	if err != nil {
		return Info{}, fmt.Errorf("load %s: %w", path, err)
	}
	if err := net.LoadStateDict(file.Tensors); err != nil {
		return Info{}, fmt.Errorf("load %s: %w", path, err)
	}
	info, err := parseInfo(file.Metadata)
	if err != nil {
		return Info{}, fmt.Errorf("load %s: %w", path, err)
	}
	return info, nil
}
