// Package dataset loads handwritten-digit samples from IDX files.
//
// IDX is a big-endian, length-prefixed binary tensor format: a 4-byte magic
// number, 4-byte dimension sizes, then the raw unsigned bytes. Image files
// carry count×28×28 pixels, label files one byte per sample.
package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
)

// Sample is one image with its class label.
type Sample struct {
	Pixels []float64 // ImageSize raw magnitudes in [0, 255]
	Label  int       // class in [0, NumClasses)
}

// Set is an aligned sequence of pixel vectors and labels.
type Set struct {
	Images [][]float64
	Labels []uint8
}

// NewSet validates that images and labels align and returns them as a Set.
func NewSet(images [][]float64, labels []uint8) (*Set, error) {
	if len(images) != len(labels) {
		return nil, fmt.Errorf("%w: image count (%d) != label count (%d)", ErrIndexOutOfRange, len(images), len(labels))
	}
	for i, img := range images {
		if len(img) != ImageSize {
			return nil, fmt.Errorf("%w: image %d has %d pixels, want %d", ErrBadDimensions, i, len(img), ImageSize)
		}
	}
	for i, l := range labels {
		if l >= NumClasses {
			return nil, fmt.Errorf("%w: label %d at index %d", ErrIndexOutOfRange, l, i)
		}
	}
	return &Set{Images: images, Labels: labels}, nil
}

// Len returns the number of samples.
func (s *Set) Len() int {
	return len(s.Labels)
}

// Sample returns sample i.
func (s *Set) Sample(i int) Sample {
	return Sample{Pixels: s.Images[i], Label: int(s.Labels[i])}
}

// Limit returns a view of the first n samples. n <= 0 or n >= Len returns s.
func (s *Set) Limit(n int) *Set {
	if n <= 0 || n >= s.Len() {
		return s
	}
	return &Set{Images: s.Images[:n], Labels: s.Labels[:n]}
}

// Load reads an image file and a label file into a Set, keeping at most
// limit samples (0 keeps all).
func Load(imagesPath, labelsPath string, limit int) (*Set, error) {
	images, err := LoadImages(imagesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	labels, err := LoadLabels(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}
	set, err := NewSet(images, labels)
	if err != nil {
		return nil, err
	}
	return set.Limit(limit), nil
}

// Standard file names of the digit dataset.
const (
	TrainImagesFile = "train-images-idx3-ubyte"
	TrainLabelsFile = "train-labels-idx1-ubyte"
	TestImagesFile  = "t10k-images-idx3-ubyte"
	TestLabelsFile  = "t10k-labels-idx1-ubyte"
)

// Files returns the image and label paths of the training or test split in
// dir. A gzip-compressed copy (name + ".gz") is used when the plain file is
// absent.
func Files(dir string, train bool) (images, labels string) {
	imageFile, labelFile := TestImagesFile, TestLabelsFile
	if train {
		imageFile, labelFile = TrainImagesFile, TrainLabelsFile
	}
	return resolve(filepath.Join(dir, imageFile)), resolve(filepath.Join(dir, labelFile))
}

func resolve(path string) string {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if _, err := os.Stat(path + ".gz"); err == nil {
			return path + ".gz"
		}
	}
	return path
}

// Synthetic creates n synthetic samples for running without dataset files.
//
// Each digit d is drawn as a bright horizontal band starting at row 2d, with
// a little per-sample noise. This is NOT realistic digit data; it only
// exercises the pipeline end to end.
func Synthetic(n int, seed int64) *Set {
	//nolint:gosec // Using math/rand for synthetic data (not security-critical)
	rng := rand.New(rand.NewSource(seed))
	images := make([][]float64, n)
	labels := make([]uint8, n)

	for i := 0; i < n; i++ {
		digit := i % NumClasses
		labels[i] = uint8(digit)
		pixels := make([]float64, ImageSize)

		startRow := digit * 2
		for row := startRow; row < startRow+8 && row < ImageRows; row++ {
			for col := 5; col < 23; col++ {
				pixels[row*ImageCols+col] = 200 + float64(rng.Intn(56))
			}
		}
		for k := 0; k < 20; k++ {
			pixels[rng.Intn(ImageSize)] = float64(rng.Intn(64))
		}
		images[i] = pixels
	}

	return &Set{Images: images, Labels: labels}
}
