package dataset

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
)

// IDX magic numbers.
const (
	LabelsMagic = 0x00000801 // 2049
	ImagesMagic = 0x00000803 // 2051
)

// Image geometry and class count of the digit dataset.
const (
	ImageRows  = 28
	ImageCols  = 28
	ImageSize  = ImageRows * ImageCols
	NumClasses = 10
)

// ReadImages decodes an IDX image stream.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes (28)
//	number of cols: 4 bytes (28)
//	pixel data: unsigned bytes (0-255)
//
// Pixels are returned as raw magnitudes in [0, 255], one 784-value vector
// per image.
func ReadImages(r io.Reader) ([][]float64, error) {
	var header struct {
		Magic, Count, Rows, Cols uint32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if header.Magic != ImagesMagic {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadMagic, header.Magic, ImagesMagic)
	}
	if header.Rows != ImageRows || header.Cols != ImageCols {
		return nil, fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrBadDimensions, header.Rows, header.Cols, ImageRows, ImageCols)
	}

	// Grow as images arrive; a corrupt count must not trigger a huge allocation.
	images := make([][]float64, 0, min(int(header.Count), 1<<16))
	buf := make([]byte, ImageSize)
	for i := 0; i < int(header.Count); i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("%w: image %d of %d: %w", ErrIndexOutOfRange, i, header.Count, err)
		}
		pixels := make([]float64, ImageSize)
		for j, b := range buf {
			pixels[j] = float64(b)
		}
		images = append(images, pixels)
	}
	return images, nil
}

// ReadLabels decodes an IDX label stream.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes (0-9)
func ReadLabels(r io.Reader) ([]uint8, error) {
	var header struct {
		Magic, Count uint32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read label header: %w", err)
	}
	if header.Magic != LabelsMagic {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadMagic, header.Magic, LabelsMagic)
	}

	labels, err := io.ReadAll(io.LimitReader(r, int64(header.Count)))
	if err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	if len(labels) != int(header.Count) {
		return nil, fmt.Errorf("%w: got %d labels, header declares %d", ErrIndexOutOfRange, len(labels), header.Count)
	}
	for i, l := range labels {
		if l >= NumClasses {
			return nil, fmt.Errorf("%w: label %d at index %d (want < %d)", ErrIndexOutOfRange, l, i, NumClasses)
		}
	}
	return labels, nil
}

// LoadImages reads an IDX image file. Paths ending in .gz are decompressed.
func LoadImages(path string) ([][]float64, error) {
	var images [][]float64
	err := withFile(path, func(r io.Reader) error {
		var err error
		images, err = ReadImages(r)
		return err
	})
	return images, err
}

// LoadLabels reads an IDX label file. Paths ending in .gz are decompressed.
func LoadLabels(path string) ([]uint8, error) {
	var labels []uint8
	err := withFile(path, func(r io.Reader) error {
		var err error
		labels, err = ReadLabels(r)
		return err
	})
	return labels, err
}

func withFile(path string, fn func(io.Reader) error) error {
	//nolint:gosec // G304: dataset path comes from user configuration
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	if err := fn(r); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
