package tools

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
)

func Brotil(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}

	buffer := bytes.Buffer{}

	br := brotli.NewWriterLevel(&buffer, brotli.BestCompression)
	if _, err := br.Write(data); err != nil {
		return nil, err
	}
	if err := br.Close(); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

func UnBrotil(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	reader := brotli.NewReader(bytes.NewReader(data))

	return io.ReadAll(reader)
}
