/*
 * Copyright (C) 2016-2018. ActionTech.
 * Based on: github.com/hashicorp/nomad, github.com/github/gh-ost .
 * License: MPL version 2: https://www.mozilla.org/en-US/MPL/2.0 .
 */

package udt

import (
	"fmt"
	"sync/atomic"

	"github.com/actiontech/udt/g"
	metrics "github.com/armon/go-metrics"
	hclog "github.com/hashicorp/go-hclog"
)

type handleKind uint8

const (
	handleConn handleKind = iota + 1
	handleObjectType
	handleObjectAttr
	handleObject
	handleKindMax
)

func (k handleKind) String() string {
	switch k {
	case handleConn:
		return "conn"
	case handleObjectType:
		return "object_type"
	case handleObjectAttr:
		return "object_attr"
	case handleObject:
		return "object"
	default:
		return fmt.Sprintf("kind_%d", uint8(k))
	}
}

// checkValid marks a handle as live. It is cleared when the handle is freed
// so stale pointers are caught by startPublicFn.
const checkValid uint32 = 0x75647468

var liveHandles [handleKindMax]int64

// genBase is embedded in every handle.
type genBase struct {
	kind     handleKind
	checkInt uint32
	refCount int32
}

type handle interface {
	gen() *genBase
	free()
}

func allocate(h handle, kind handleKind) {
	b := h.gen()
	b.kind = kind
	b.refCount = 1
	atomic.StoreUint32(&b.checkInt, checkValid)
	n := atomic.AddInt64(&liveHandles[kind], 1)
	metrics.SetGauge([]string{"udt", "handles", kind.String()}, float32(n))
}

// discard tears a handle down regardless of its reference count. It is the
// single teardown path for partially constructed handles.
func discard(h handle) {
	b := h.gen()
	if !atomic.CompareAndSwapUint32(&b.checkInt, checkValid, 0) {
		return
	}
	n := atomic.AddInt64(&liveHandles[b.kind], -1)
	metrics.SetGauge([]string{"udt", "handles", b.kind.String()}, float32(n))
	h.free()
}

func (b *genBase) isLive() bool {
	return b != nil && atomic.LoadUint32(&b.checkInt) == checkValid
}

func (b *genBase) refs() int32 {
	return atomic.LoadInt32(&b.refCount)
}

// setRefCount adjusts the reference count of h by delta and frees h when the
// count drops to zero.
func setRefCount(h handle, delta int32) error {
	b := h.gen()
	if !b.isLive() {
		return newError("set reference count", ErrCodeInvalidHandle, handleKindName(h))
	}
	n := atomic.AddInt32(&b.refCount, delta)
	switch {
	case n == 0:
		discard(h)
	case n < 0:
		atomic.AddInt32(&b.refCount, -delta)
		return newError("set reference count", ErrCodeInvalidHandle, b.kind)
	}
	return nil
}

// dropRef releases the reference a handle being freed holds on h.
func dropRef(logger hclog.Logger, h handle, holder handleKind) {
	if err := setRefCount(h, -1); err != nil {
		logger.Warn("release held reference failed", "holder", holder.String(), "err", err)
	}
}

// startPublicFn validates h before a public operation runs.
func startPublicFn(h handle, kind handleKind, fnName string) error {
	b := h.gen()
	if g.EnvIsTrue(g.ENV_TRACE_HANDLES) {
		g.Logger.Trace("fn start", "fn", fnName, "handle", fmt.Sprintf("%p", b))
	}
	if !b.isLive() || b.kind != kind {
		err := newError("check handle", ErrCodeInvalidHandle, kind)
		err.FnName = fnName
		return err
	}
	return nil
}

func addRef(h handle, kind handleKind, fnName string) error {
	if err := startPublicFn(h, kind, fnName); err != nil {
		return err
	}
	return setRefCount(h, 1)
}

func release(h handle, kind handleKind, fnName string) error {
	if err := startPublicFn(h, kind, fnName); err != nil {
		return err
	}
	return setRefCount(h, -1)
}

func handleKindName(h handle) string {
	if b := h.gen(); b != nil && b.kind != 0 {
		return b.kind.String()
	}
	return "unknown"
}

// LiveHandles reports how many handles of each kind are currently allocated.
func LiveHandles() map[string]int64 {
	res := make(map[string]int64, handleKindMax-1)
	for k := handleConn; k < handleKindMax; k++ {
		res[k.String()] = atomic.LoadInt64(&liveHandles[k])
	}
	return res
}
