package vector

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Float32SliceToBytes converts a slice of float32 to a byte slice.
// The length of the slice is written first so the encoding is self-describing.
func Float32SliceToBytes(floats []float32) ([]byte, error) {
	buf := new(bytes.Buffer)

	if err := binary.Write(buf, binary.LittleEndian, int32(len(floats))); err != nil {
		return nil, fmt.Errorf("failed to write vector length: %w", err)
	}

	if err := binary.Write(buf, binary.LittleEndian, floats); err != nil {
		return nil, fmt.Errorf("failed to write vector values: %w", err)
	}

	return buf.Bytes(), nil
}

// BytesToFloat32Slice converts a byte slice produced by Float32SliceToBytes
// back to a slice of float32.
func BytesToFloat32Slice(data []byte) ([]float32, error) {
	buf := bytes.NewReader(data)

	var length int32
	if err := binary.Read(buf, binary.LittleEndian, &length); err != nil {
		return nil, fmt.Errorf("failed to read vector length: %w", err)
	}

	floats := make([]float32, length)
	if err := binary.Read(buf, binary.LittleEndian, floats); err != nil {
		return nil, fmt.Errorf("failed to read vector values: %w", err)
	}

	return floats, nil
}
