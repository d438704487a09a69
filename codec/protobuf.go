/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec

import (
	"fmt"
	"reflect"

	"github.com/suparena/persist/errors"
	"google.golang.org/protobuf/proto"
)

type protobufCodec struct{}

// Protobuf returns a codec for proto.Message values. Unmarshal accepts either
// a message or a pointer to a message pointer, which it allocates when nil.
func Protobuf() Codec {
	return protobufCodec{}
}

func (c protobufCodec) Marshal(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, errors.NewSerializationError(c.Name(), "encode", fmt.Errorf("%T is not a proto.Message", v))
	}
	data, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.NewSerializationError(c.Name(), "encode", err)
	}
	return data, nil
}

func (c protobufCodec) Unmarshal(data []byte, v any) error {
	m, err := messageTarget(v)
	if err != nil {
		return errors.NewSerializationError(c.Name(), "decode", err)
	}
	if err := proto.Unmarshal(data, m); err != nil {
		return errors.NewSerializationError(c.Name(), "decode", err)
	}
	return nil
}

func (protobufCodec) Name() string { return "protobuf" }

// messageTarget resolves the message to decode into. Generic callers such as
// repository.RetrieveItem[*pb.Msg] pass a **pb.Msg.
func messageTarget(v any) (proto.Message, error) {
	if m, ok := v.(proto.Message); ok {
		return m, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Pointer {
		return nil, fmt.Errorf("%T is not a proto.Message", v)
	}
	inner := rv.Elem()
	if inner.IsNil() {
		inner.Set(reflect.New(inner.Type().Elem()))
	}
	m, ok := inner.Interface().(proto.Message)
	if !ok {
		return nil, fmt.Errorf("%T is not a proto.Message", v)
	}
	return m, nil
}
