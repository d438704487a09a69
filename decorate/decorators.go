/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package decorate

import "github.com/suparena/persist/repository"

// FullSyncSimpleAsync is a repository offering FullSync and SimpleAsync.
type FullSyncSimpleAsync interface {
	repository.FullSync
	repository.SimpleAsync
}

// SimpleSyncFullAsync is a repository offering SimpleSync and FullAsync.
type SimpleSyncFullAsync interface {
	repository.SimpleSync
	repository.FullAsync
}

// Sync decorates a SimpleSync repository.
type Sync struct {
	syncCore
}

// WrapSync decorates a repository that is only SimpleSync.
func WrapSync(inner repository.SimpleSync, t Transform) *Sync {
	mustNotBeNil(inner, "WrapSync")
	t.mustBeComplete()
	return &Sync{syncCore{inner: inner, t: t}}
}

// Async decorates a SimpleAsync repository.
type Async struct {
	asyncCore
}

// WrapAsync decorates a repository that is only SimpleAsync.
func WrapAsync(inner repository.SimpleAsync, t Transform) *Async {
	mustNotBeNil(inner, "WrapAsync")
	t.mustBeComplete()
	return &Async{asyncCore{inner: inner, t: t}}
}

// SyncAsync decorates a repository offering both simple contracts.
type SyncAsync struct {
	syncCore
	asyncCore
}

// WrapSyncAsync decorates a key-value repository.
func WrapSyncAsync(inner repository.KeyValue, t Transform) *SyncAsync {
	mustNotBeNil(inner, "WrapSyncAsync")
	t.mustBeComplete()
	return &SyncAsync{syncCore{inner: inner, t: t}, asyncCore{inner: inner, t: t}}
}

// FullSync decorates a FullSync repository.
type FullSync struct {
	fullSyncCore
}

// WrapFullSync decorates a repository that is only FullSync.
func WrapFullSync(inner repository.FullSync, t Transform) *FullSync {
	mustNotBeNil(inner, "WrapFullSync")
	t.mustBeComplete()
	return &FullSync{newFullSyncCore(inner, t)}
}

// FullAsync decorates a FullAsync repository.
type FullAsync struct {
	fullAsyncCore
}

// WrapFullAsync decorates a repository that is only FullAsync.
func WrapFullAsync(inner repository.FullAsync, t Transform) *FullAsync {
	mustNotBeNil(inner, "WrapFullAsync")
	t.mustBeComplete()
	return &FullAsync{newFullAsyncCore(inner, t)}
}

// FullSyncAsync decorates a FullSync + SimpleAsync repository.
type FullSyncAsync struct {
	fullSyncCore
	asyncCore
}

// WrapFullSyncAsync decorates a repository offering FullSync and SimpleAsync.
func WrapFullSyncAsync(inner FullSyncSimpleAsync, t Transform) *FullSyncAsync {
	mustNotBeNil(inner, "WrapFullSyncAsync")
	t.mustBeComplete()
	return &FullSyncAsync{newFullSyncCore(inner, t), asyncCore{inner: inner, t: t}}
}

// SyncFullAsync decorates a SimpleSync + FullAsync repository.
type SyncFullAsync struct {
	syncCore
	fullAsyncCore
}

// WrapSyncFullAsync decorates a repository offering SimpleSync and FullAsync.
func WrapSyncFullAsync(inner SimpleSyncFullAsync, t Transform) *SyncFullAsync {
	mustNotBeNil(inner, "WrapSyncFullAsync")
	t.mustBeComplete()
	return &SyncFullAsync{syncCore{inner: inner, t: t}, newFullAsyncCore(inner, t)}
}

// Full decorates a repository offering every capability.
type Full struct {
	fullSyncCore
	fullAsyncCore
}

// WrapFull decorates a repository offering FullSync and FullAsync.
func WrapFull(inner repository.Full, t Transform) *Full {
	mustNotBeNil(inner, "WrapFull")
	t.mustBeComplete()
	return &Full{newFullSyncCore(inner, t), newFullAsyncCore(inner, t)}
}

var (
	_ repository.SimpleSync  = (*Sync)(nil)
	_ repository.SimpleAsync = (*Async)(nil)
	_ repository.KeyValue    = (*SyncAsync)(nil)
	_ repository.FullSync    = (*FullSync)(nil)
	_ repository.FullAsync   = (*FullAsync)(nil)
	_ FullSyncSimpleAsync    = (*FullSyncAsync)(nil)
	_ SimpleSyncFullAsync    = (*SyncFullAsync)(nil)
	_ repository.Full        = (*Full)(nil)
)
