package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/born-ml/digitnet/internal/matrix"
)

const (
	metadataKey = "__metadata__"
	dtypeF64    = "F64"
	f64Size     = 8
)

// MetaChecksum is the metadata key holding the hex SHA-256 of the data
// section.
const MetaChecksum = "checksum_sha256"

// TensorHeader describes one tensor in the SafeTensors header.
type TensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// File is the decoded content of a SafeTensors file.
type File struct {
	Tensors  map[string]*matrix.Matrix
	Metadata map[string]string
}

// WriteSafeTensors writes tensors to a SafeTensors file at path.
func WriteSafeTensors(path string, tensors map[string]*matrix.Matrix, metadata map[string]string) error {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(f, tensors, metadata); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Write encodes tensors in SafeTensors format.
//
// Tensors are written in alphabetical order by name. The checksum of the data
// section is stored in the metadata under MetaChecksum, replacing any value
// the caller passed.
func Write(w io.Writer, tensors map[string]*matrix.Matrix, metadata map[string]string) error {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	header := make(map[string]any, len(names)+1)
	var data bytes.Buffer
	for _, name := range names {
		m := tensors[name]
		start := int64(data.Len())
		var buf [f64Size]byte
		for _, v := range m.Data() {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			data.Write(buf[:])
		}
		header[name] = TensorHeader{
			DType:       dtypeF64,
			Shape:       []int64{int64(m.Rows()), int64(m.Cols())},
			DataOffsets: [2]int64{start, int64(data.Len())},
		}
	}

	meta := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		meta[k] = v
	}
	meta[MetaChecksum] = ComputeChecksum(data.Bytes())
	header[metadataKey] = meta

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(data.Bytes()); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}

// ReadSafeTensors reads and validates the SafeTensors file at path.
func ReadSafeTensors(path string) (*File, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a SafeTensors stream. Only F64 rank-1 and rank-2 tensors are
// accepted; a rank-1 tensor becomes a column. The data section checksum is
// verified when the metadata carries one.
func Read(r io.Reader) (*File, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}
	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	metadata, headers, err := parseHeader(headerJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if sum, ok := metadata[MetaChecksum]; ok {
		if err := ValidateChecksum(data, sum); err != nil {
			return nil, err
		}
	}

	if err := ValidateLayout(headers, int64(len(data))); err != nil {
		return nil, err
	}

	tensors := make(map[string]*matrix.Matrix, len(headers))
	for name, h := range headers {
		m, err := decodeTensor(h, data)
		if err != nil {
			return nil, fmt.Errorf("tensor %q: %w", name, err)
		}
		tensors[name] = m
	}
	return &File{Tensors: tensors, Metadata: metadata}, nil
}

func parseHeader(raw []byte) (map[string]string, map[string]TensorHeader, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, nil, err
	}
	metadata := map[string]string{}
	if m, ok := entries[metadataKey]; ok {
		if err := json.Unmarshal(m, &metadata); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
		delete(entries, metadataKey)
	}
	headers := make(map[string]TensorHeader, len(entries))
	for name, value := range entries {
		var h TensorHeader
		if err := json.Unmarshal(value, &h); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal tensor %s: %w", name, err)
		}
		headers[name] = h
	}
	return metadata, headers, nil
}

// decodeTensor reads an entry that already passed ValidateLayout.
func decodeTensor(h TensorHeader, data []byte) (*matrix.Matrix, error) {
	rows, cols, _ := matrixShape(h.Shape)
	raw := data[h.DataOffsets[0]:h.DataOffsets[1]]
	values := make([]float64, rows*cols)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*f64Size:]))
	}
	return matrix.FromSlice(int(rows), int(cols), values)
}
