/*
Package codec defines the serialization boundary between persisted values and
byte repositories.

	type Codec interface {
	    Marshal(v any) ([]byte, error)
	    Unmarshal(data []byte, v any) error
	    Name() string
	}

Built-in codecs are registered by name at init time:

	json      json-iterator, encoding/json compatible
	yaml      gopkg.in/yaml.v3
	cbor      fxamacker/cbor (RFC 8949)
	protobuf  google.golang.org/protobuf, for proto.Message values

Failures are reported as errors.SerializationError so callers can test them
with errors.IsSerialization.
*/
package codec
