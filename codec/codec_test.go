/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package codec_test

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/suparena/persist/codec"
	"github.com/suparena/persist/errors"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"pgregory.net/rapid"
)

type document struct {
	Name  string   `json:"name" yaml:"name" cbor:"name"`
	Count int64    `json:"count" yaml:"count" cbor:"count"`
	Tags  []string `json:"tags" yaml:"tags" cbor:"tags"`
}

func drawDocument(t *rapid.T) document {
	return document{
		Name:  rapid.String().Draw(t, "name"),
		Count: rapid.Int64().Draw(t, "count"),
		Tags:  rapid.SliceOf(rapid.StringMatching(`[a-z]{1,8}`)).Draw(t, "tags"),
	}
}

// TestCodec_RoundTrip_Property proves decode(encode(v)) == v for the binary
// and JSON codecs.
func TestCodec_RoundTrip_Property(t *testing.T) {
	t.Parallel()

	for _, c := range []codec.Codec{codec.JSON(), codec.CBOR()} {
		t.Run(c.Name(), func(t *testing.T) {
			rapid.Check(t, func(rt *rapid.T) {
				in := drawDocument(rt)

				data, err := c.Marshal(in)
				if err != nil {
					rt.Fatalf("Marshal() error = %v", err)
				}

				var out document
				if err := c.Unmarshal(data, &out); err != nil {
					rt.Fatalf("Unmarshal() error = %v", err)
				}

				if out.Name != in.Name || out.Count != in.Count || len(out.Tags) != len(in.Tags) {
					rt.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
				}
				for i := range in.Tags {
					if out.Tags[i] != in.Tags[i] {
						rt.Fatalf("tag %d = %q, want %q", i, out.Tags[i], in.Tags[i])
					}
				}
			})
		})
	}
}

func TestYAML_RoundTrip(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	in := document{Name: "Initial value", Count: 42, Tags: []string{"a", "b"}}
	c := codec.YAML()

	data, err := c.Marshal(in)
	g.Expect(err).NotTo(HaveOccurred())

	var out document
	g.Expect(c.Unmarshal(data, &out)).To(Succeed())
	g.Expect(out).To(Equal(in))
}

func TestProtobuf_RoundTrip(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)
	c := codec.Protobuf()

	data, err := c.Marshal(wrapperspb.String("New value"))
	g.Expect(err).NotTo(HaveOccurred())

	t.Run("message target", func(t *testing.T) {
		out := &wrapperspb.StringValue{}
		NewWithT(t).Expect(c.Unmarshal(data, out)).To(Succeed())
		NewWithT(t).Expect(out.GetValue()).To(Equal("New value"))
	})

	t.Run("pointer to nil message", func(t *testing.T) {
		var out *wrapperspb.StringValue
		NewWithT(t).Expect(c.Unmarshal(data, &out)).To(Succeed())
		NewWithT(t).Expect(out.GetValue()).To(Equal("New value"))
	})
}

func TestCodec_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		run  func() error
	}{
		{
			name: "json malformed input",
			run: func() error {
				var out document
				return codec.JSON().Unmarshal([]byte(`{"name":`), &out)
			},
		},
		{
			name: "json unrepresentable value",
			run: func() error {
				_, err := codec.JSON().Marshal(make(chan int))
				return err
			},
		},
		{
			name: "cbor malformed input",
			run: func() error {
				var out document
				return codec.CBOR().Unmarshal([]byte{0xff, 0x00}, &out)
			},
		},
		{
			name: "protobuf non message",
			run: func() error {
				_, err := codec.Protobuf().Marshal("plain string")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if !errors.IsSerialization(err) {
				t.Fatalf("expected serialization error, got %v", err)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	g := NewWithT(t)

	g.Expect(codec.Names()).To(ContainElements("cbor", "json", "protobuf", "yaml"))

	c, err := codec.Lookup("json")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(c.Name()).To(Equal("json"))

	_, err = codec.Lookup("xml")
	g.Expect(err).To(HaveOccurred())

	g.Expect(func() { codec.Register(codec.JSON()) }).To(Panic())
}
