package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Encoder serializes values before they are written to the store.
// Reads always return raw bytes; decoding is the caller's concern.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// JSONEncoder serializes values as JSON. It is the default encoder.
type JSONEncoder struct{}

func (JSONEncoder) Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return data, nil
}

// BytesEncoder passes through []byte and string values unchanged.
// Any other type fails with ErrEncode.
type BytesEncoder struct{}

func (BytesEncoder) Encode(v any) ([]byte, error) {
	switch val := v.(type) {
	case []byte:
		return val, nil
	case string:
		return []byte(val), nil
	default:
		return nil, errors.Join(ErrEncode, fmt.Errorf("bytes encoder cannot encode %T", v))
	}
}
