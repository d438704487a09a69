/*
Package decorate layers byte transforms (encryption, compression) onto
repositories while preserving exactly the capability set of the wrapped
repository.

Capability membership is decided when the decorator is composed, not by
inspecting the inner value at run time. Each constructor accepts one
capability combination and returns a concrete type implementing that
combination and nothing more:

	WrapSync           SimpleSync
	WrapAsync          SimpleAsync
	WrapSyncAsync      SimpleSync + SimpleAsync
	WrapFullSync       FullSync
	WrapFullAsync      FullAsync
	WrapFullSyncAsync  FullSync + SimpleAsync
	WrapSyncFullAsync  SimpleSync + FullAsync
	WrapFull           FullSync + FullAsync

A decorator stores Forward(data) and retrieves Inverse(data). Sequence
operations transform one element per Next and never buffer the sequence.
Metadata, rename and delete pass through untouched.

Decorators stack in either order:

	cipher, _ := transform.NewAESGCM(key)
	files := file.New(root)
	repo := decorate.WrapFull(
	    decorate.WrapFull(files, decorate.Compressing(transform.Snappy())),
	    decorate.Encrypting(cipher),
	)

Passing a nil repository or an incomplete Transform is a programming error
and panics at construction.
*/
package decorate
