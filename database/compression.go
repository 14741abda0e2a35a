package database

import (
	"errors"

	"github.com/klauspost/compress/s2"
)

// SnappyCompressor compresses native protocol frames with the snappy block format.
// It satisfies gocql.Compressor.
type SnappyCompressor struct{}

func (SnappyCompressor) Name() string {
	return "snappy"
}

func (SnappyCompressor) Encode(data []byte) ([]byte, error) {
	return s2.EncodeSnappy(nil, data), nil
}

func (SnappyCompressor) Decode(data []byte) ([]byte, error) {
	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, errors.Join(errors.New("snappy frame decode"), err)
	}
	return out, nil
}
