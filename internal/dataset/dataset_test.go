package dataset_test

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/digitnet/internal/dataset"
)

func imagesIDX(t *testing.T, count uint32, rows, cols uint32, pixels []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, v := range []uint32{dataset.ImagesMagic, count, rows, cols} {
		require.NoError(t, binary.Write(&buf, binary.BigEndian, v))
	}
	buf.Write(pixels)
	return buf.Bytes()
}

func labelsIDX(t *testing.T, count uint32, labels []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, v := range []uint32{dataset.LabelsMagic, count} {
		require.NoError(t, binary.Write(&buf, binary.BigEndian, v))
	}
	buf.Write(labels)
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func twoImages() []byte {
	pixels := make([]byte, 2*dataset.ImageSize)
	pixels[0] = 255
	pixels[dataset.ImageSize+783] = 17
	return pixels
}

func TestReadImages(t *testing.T) {
	images, err := dataset.ReadImages(bytes.NewReader(imagesIDX(t, 2, 28, 28, twoImages())))
	require.NoError(t, err)

	require.Len(t, images, 2)
	require.Len(t, images[0], dataset.ImageSize)
	assert.Equal(t, 255.0, images[0][0])
	assert.Equal(t, 17.0, images[1][783])
}

func TestReadImages_Errors(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		data := imagesIDX(t, 2, 28, 28, twoImages())
		data[3] = 0x01
		_, err := dataset.ReadImages(bytes.NewReader(data))
		assert.ErrorIs(t, err, dataset.ErrBadMagic)
	})
	t.Run("bad dimensions", func(t *testing.T) {
		_, err := dataset.ReadImages(bytes.NewReader(imagesIDX(t, 1, 32, 32, make([]byte, 1024))))
		assert.ErrorIs(t, err, dataset.ErrBadDimensions)
	})
	t.Run("truncated", func(t *testing.T) {
		_, err := dataset.ReadImages(bytes.NewReader(imagesIDX(t, 3, 28, 28, twoImages())))
		assert.ErrorIs(t, err, dataset.ErrIndexOutOfRange)
		assert.ErrorContains(t, err, "image 2 of 3")
	})
	t.Run("short header", func(t *testing.T) {
		_, err := dataset.ReadImages(bytes.NewReader([]byte{0, 0, 8}))
		assert.Error(t, err)
	})
}

func TestReadLabels(t *testing.T) {
	labels, err := dataset.ReadLabels(bytes.NewReader(labelsIDX(t, 3, []byte{7, 0, 9})))
	require.NoError(t, err)
	assert.Equal(t, []uint8{7, 0, 9}, labels)
}

func TestReadLabels_Errors(t *testing.T) {
	t.Run("truncated", func(t *testing.T) {
		_, err := dataset.ReadLabels(bytes.NewReader(labelsIDX(t, 4, []byte{1, 2})))
		assert.ErrorIs(t, err, dataset.ErrIndexOutOfRange)
	})
	t.Run("label out of range", func(t *testing.T) {
		_, err := dataset.ReadLabels(bytes.NewReader(labelsIDX(t, 2, []byte{1, 10})))
		assert.ErrorIs(t, err, dataset.ErrIndexOutOfRange)
	})
	t.Run("bad magic", func(t *testing.T) {
		_, err := dataset.ReadLabels(bytes.NewReader(imagesIDX(t, 0, 28, 28, nil)))
		assert.ErrorIs(t, err, dataset.ErrBadMagic)
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	imgPath := writeFile(t, dir, "img", imagesIDX(t, 2, 28, 28, twoImages()))
	lblPath := writeFile(t, dir, "lbl.gz", gzipBytes(t, labelsIDX(t, 2, []byte{3, 4})))

	set, err := dataset.Load(imgPath, lblPath, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, 4, set.Sample(1).Label)
	assert.Equal(t, 17.0, set.Sample(1).Pixels[783])

	limited, err := dataset.Load(imgPath, lblPath, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, limited.Len())
}

func TestLoad_CountMismatch(t *testing.T) {
	dir := t.TempDir()
	imgPath := writeFile(t, dir, "img", imagesIDX(t, 2, 28, 28, twoImages()))
	lblPath := writeFile(t, dir, "lbl", labelsIDX(t, 3, []byte{1, 2, 3}))

	_, err := dataset.Load(imgPath, lblPath, 0)
	assert.ErrorIs(t, err, dataset.ErrIndexOutOfRange)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := dataset.Load(filepath.Join(t.TempDir(), "nope"), "nope", 0)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFiles_PrefersPlainThenGzip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, dataset.TrainImagesFile+".gz", nil)
	writeFile(t, dir, dataset.TrainLabelsFile, nil)

	images, labels := dataset.Files(dir, true)
	assert.Equal(t, filepath.Join(dir, dataset.TrainImagesFile+".gz"), images)
	assert.Equal(t, filepath.Join(dir, dataset.TrainLabelsFile), labels)

	images, _ = dataset.Files(dir, false)
	assert.Equal(t, filepath.Join(dir, dataset.TestImagesFile), images)
}

func TestNewSet_Validation(t *testing.T) {
	_, err := dataset.NewSet([][]float64{make([]float64, 3)}, []uint8{1})
	assert.ErrorIs(t, err, dataset.ErrBadDimensions)

	_, err = dataset.NewSet([][]float64{make([]float64, dataset.ImageSize)}, []uint8{11})
	assert.ErrorIs(t, err, dataset.ErrIndexOutOfRange)
}

func TestSynthetic(t *testing.T) {
	set := dataset.Synthetic(25, 1)

	assert.Equal(t, 25, set.Len())
	for i := 0; i < set.Len(); i++ {
		s := set.Sample(i)
		assert.Equal(t, i%dataset.NumClasses, s.Label)
		assert.Len(t, s.Pixels, dataset.ImageSize)
		for _, p := range s.Pixels {
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 255.0)
		}
	}

	again := dataset.Synthetic(25, 1)
	assert.Equal(t, set.Images, again.Images)
}
