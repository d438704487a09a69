/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"github.com/fxamacker/cbor/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/suparena/persist/errors"
	"gopkg.in/yaml.v3"
)

// Codec encodes and decodes values for storage.
type Codec interface {
	// Marshal serializes v into bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes data into v (must be a pointer).
	Unmarshal(data []byte, v any) error
	// Name returns the codec identifier used for diagnostics and configuration.
	Name() string
}

type jsonCodec struct {
	api jsoniter.API
}

// JSON returns a codec compatible with encoding/json.
func JSON() Codec {
	return jsonCodec{api: jsoniter.ConfigCompatibleWithStandardLibrary}
}

func (c jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := c.api.Marshal(v)
	if err != nil {
		return nil, errors.NewSerializationError(c.Name(), "encode", err)
	}
	return data, nil
}

func (c jsonCodec) Unmarshal(data []byte, v any) error {
	if err := c.api.Unmarshal(data, v); err != nil {
		return errors.NewSerializationError(c.Name(), "decode", err)
	}
	return nil
}

func (jsonCodec) Name() string { return "json" }

type yamlCodec struct{}

// YAML returns a codec backed by gopkg.in/yaml.v3.
func YAML() Codec {
	return yamlCodec{}
}

func (c yamlCodec) Marshal(v any) (data []byte, err error) {
	// yaml.v3 panics on some unrepresentable values such as channels.
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = errors.NewSerializationError(c.Name(), "encode", panicError{r})
		}
	}()
	data, err = yaml.Marshal(v)
	if err != nil {
		return nil, errors.NewSerializationError(c.Name(), "encode", err)
	}
	return data, nil
}

func (c yamlCodec) Unmarshal(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return errors.NewSerializationError(c.Name(), "decode", err)
	}
	return nil
}

func (yamlCodec) Name() string { return "yaml" }

type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// CBOR returns a codec using canonical CBOR encoding.
func CBOR() Codec {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
	return cborCodec{enc: enc, dec: dec}
}

func (c cborCodec) Marshal(v any) ([]byte, error) {
	data, err := c.enc.Marshal(v)
	if err != nil {
		return nil, errors.NewSerializationError(c.Name(), "encode", err)
	}
	return data, nil
}

func (c cborCodec) Unmarshal(data []byte, v any) error {
	if err := c.dec.Unmarshal(data, v); err != nil {
		return errors.NewSerializationError(c.Name(), "decode", err)
	}
	return nil
}

func (cborCodec) Name() string { return "cbor" }

type panicError struct {
	value any
}

func (p panicError) Error() string {
	if err, ok := p.value.(error); ok {
		return err.Error()
	}
	if s, ok := p.value.(string); ok {
		return s
	}
	return "unrepresentable value"
}
