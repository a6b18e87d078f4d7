//go:build !ios && !android && (amd64 || arm64)

package refcount

import (
	"errors"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gocef/capi"
)

// fakeObject stands in for a CEF-allocated object. Its header slots are
// purego callbacks, so the handle exercises the same call path it uses
// against libcef.
type fakeObject struct {
	base  capi.BaseRefCounted
	refs  atomic.Int32
	zeros atomic.Int32 // releases that reached zero
}

var (
	fakeOnce                                    sync.Once
	fakeAddRef, fakeRelease, fakeOne, fakeAtOne uintptr
)

func fakeOf(self unsafe.Pointer) *fakeObject {
	return (*fakeObject)(self)
}

func newFake(initial int32) *fakeObject {
	fakeOnce.Do(func() {
		fakeAddRef = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) {
			fakeOf(self).refs.Add(1)
		})
		fakeRelease = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) int32 {
			f := fakeOf(self)
			if f.refs.Add(-1) == 0 {
				f.zeros.Add(1)
				return 1
			}
			return 0
		})
		fakeOne = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) int32 {
			if fakeOf(self).refs.Load() == 1 {
				return 1
			}
			return 0
		})
		fakeAtOne = purego.NewCallback(func(_ purego.CDecl, self unsafe.Pointer) int32 {
			if fakeOf(self).refs.Load() >= 1 {
				return 1
			}
			return 0
		})
	})
	f := &fakeObject{base: capi.BaseRefCounted{
		Size:             unsafe.Sizeof(fakeObject{}),
		AddRef:           fakeAddRef,
		Release:          fakeRelease,
		HasOneRef:        fakeOne,
		HasAtLeastOneRef: fakeAtOne,
	}}
	f.refs.Store(initial)
	return f
}

func TestAdoptDoesNotAddRef(t *testing.T) {
	f := newFake(1)
	r, err := Adopt(f)
	if err != nil {
		t.Fatalf("Adopt: %v", err)
	}
	if got := f.refs.Load(); got != 1 {
		t.Errorf("refs = %d after Adopt, want 1", got)
	}
	if !r.HasOneRef() {
		t.Error("HasOneRef should be true")
	}
	if !r.Release() {
		t.Error("releasing the only reference should report last")
	}
	if f.zeros.Load() != 1 {
		t.Errorf("zero reached %d times", f.zeros.Load())
	}
}

func TestBorrowAddsRef(t *testing.T) {
	f := newFake(1) // reference held by the "native" caller
	r, err := Borrow(f)
	if err != nil {
		t.Fatalf("Borrow: %v", err)
	}
	if got := f.refs.Load(); got != 2 {
		t.Errorf("refs = %d after Borrow, want 2", got)
	}
	if r.Release() {
		t.Error("native caller still holds a reference")
	}
	if got := f.refs.Load(); got != 1 {
		t.Errorf("refs = %d after Release, want 1", got)
	}
}

func TestNullHandle(t *testing.T) {
	if _, err := Adopt[fakeObject](nil); !errors.Is(err, ErrNullHandle) {
		t.Errorf("Adopt(nil) err = %v", err)
	}
	if _, err := Borrow[fakeObject](nil); !errors.Is(err, ErrNullHandle) {
		t.Errorf("Borrow(nil) err = %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustAdopt(nil) should panic")
		}
	}()
	MustAdopt[fakeObject](nil)
}

func TestCloneReleaseSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for round := 0; round < 50; round++ {
		f := newFake(1)
		live := []*Ref[fakeObject]{MustAdopt(f)}

		for step := 0; step < 40 && len(live) > 0; step++ {
			i := rng.Intn(len(live))
			if rng.Intn(2) == 0 {
				live = append(live, live[i].Clone())
			} else {
				live[i].Release()
				live = append(live[:i], live[i+1:]...)
			}
			if got := f.refs.Load(); int(got) != len(live) {
				t.Fatalf("round %d step %d: refs = %d, live handles = %d", round, step, got, len(live))
			}
		}

		for i, r := range live {
			last := r.Release()
			if last != (i == len(live)-1) {
				t.Fatalf("round %d: handle %d of %d reported last=%v", round, i, len(live), last)
			}
		}
		if f.zeros.Load() != 1 {
			t.Fatalf("round %d: zero reached %d times, want 1", round, f.zeros.Load())
		}
	}
}

func TestDoubleReleaseIsNoOp(t *testing.T) {
	f := newFake(1)
	a := MustAdopt(f)
	b := a.Clone()

	a.Release()
	a.Release()
	if got := f.refs.Load(); got != 1 {
		t.Errorf("refs = %d, want 1", got)
	}
	if a.Valid() || a.Ptr() != nil {
		t.Error("released handle should be empty")
	}
	if a.Clone() != nil {
		t.Error("cloning a released handle should return nil")
	}
	if !b.Release() {
		t.Error("b held the last reference")
	}
}

func TestIntoRawSuppressesRelease(t *testing.T) {
	f := newFake(1)
	r := MustAdopt(f)

	p := r.IntoRaw()
	if p != f {
		t.Error("IntoRaw should return the wrapped pointer")
	}
	if r.Release() {
		t.Error("Release after IntoRaw should be a no-op")
	}
	if got := f.refs.Load(); got != 1 {
		t.Errorf("refs = %d, transferred reference was dropped", got)
	}
	if RawOf(r) != 0 {
		t.Error("RawOf should be 0 for an empty handle")
	}

	// The new owner gives the reference back.
	MustAdopt(p).Release()
	if f.zeros.Load() != 1 {
		t.Error("transferred reference should reach zero once")
	}
}

func TestNilRef(t *testing.T) {
	var r *Ref[fakeObject]
	if r.Ptr() != nil || r.Valid() || r.Release() || r.IntoRaw() != nil || r.Clone() != nil {
		t.Error("nil Ref should behave as empty")
	}
	if r.HasOneRef() || r.HasAtLeastOneRef() {
		t.Error("nil Ref has no references")
	}
	if RawOf(r) != 0 {
		t.Error("RawOf(nil) should be 0")
	}
}

func TestConcurrentClones(t *testing.T) {
	f := newFake(1)
	root := MustAdopt(f)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c := root.Clone()
				if !c.HasAtLeastOneRef() {
					t.Error("clone should see a live object")
				}
				c.Release()
			}
		}()
	}
	wg.Wait()

	if got := f.refs.Load(); got != 1 {
		t.Errorf("refs = %d, want 1", got)
	}
	root.Release()
	if f.zeros.Load() != 1 {
		t.Errorf("zero reached %d times", f.zeros.Load())
	}
}

// collect runs the garbage collector until done reports true or the
// attempts run out, giving finalizers time to run in between.
func collect(done func() bool) bool {
	for i := 0; i < 100; i++ {
		if done() {
			return true
		}
		runtime.GC()
		time.Sleep(5 * time.Millisecond)
	}
	return done()
}

//go:noinline
func forget(f *fakeObject) {
	r := MustAdopt(f)
	r.Clone()
}

func TestFinalizerReleasesForgottenRefs(t *testing.T) {
	f := newFake(1)
	forget(f)

	if !collect(func() bool { return f.refs.Load() == 0 }) {
		t.Fatalf("refs = %d after GC, want 0", f.refs.Load())
	}
	if got := f.zeros.Load(); got != 1 {
		t.Errorf("object freed %d times, want 1", got)
	}
}

func TestReleasedRefIsNotFinalizedAgain(t *testing.T) {
	f := newFake(2)
	func() {
		r := MustAdopt(f)
		r.Release()
	}()

	collect(func() bool { return false })
	if got := f.refs.Load(); got != 1 {
		t.Errorf("refs = %d, want 1", got)
	}
}
