//go:build !ios && !android && (amd64 || arm64)

package cefstring

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"unicode/utf16"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gocef/capi"
)

// countingDtor is a C-callable destructor that only counts its calls.
var (
	countingOnce  sync.Once
	countingPtr   uintptr
	countingCalls atomic.Int32
)

func countingDtor() uintptr {
	countingOnce.Do(func() {
		countingPtr = purego.NewCallback(func(_ purego.CDecl, str *uint16) {
			countingCalls.Add(1)
		})
	})
	return countingPtr
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"ascii", "hello, world"},
		{"latin", "héllo"},
		{"cjk", "日本語のテキスト"},
		{"cyrillic", "Привет"},
		{"astral", "emoji 🎉 and 𝄞"},
		{"embedded nul", "a\x00b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.in)
			if err != nil {
				t.Fatalf("New(%q): %v", tt.in, err)
			}
			defer s.Free()

			if got := s.String(); got != tt.in {
				t.Errorf("round trip = %q, want %q", got, tt.in)
			}
			if want := len(utf16.Encode([]rune(tt.in))); s.Len() != want {
				t.Errorf("Len = %d, want %d", s.Len(), want)
			}
			if s.Raw().Dtor == 0 {
				t.Error("encoded string should carry a destructor")
			}
		})
	}
}

func TestHelloScenario(t *testing.T) {
	before := buffers.Count()

	s, err := New("héllo")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Len() != 5 {
		t.Errorf("Len = %d, want 5", s.Len())
	}
	if got := Decode(s.Raw()); got != "héllo" {
		t.Errorf("Decode = %q", got)
	}

	s.Free()
	s.Free()

	if s.Raw().Str != nil || s.Raw().Length != 0 || s.Raw().Dtor != 0 {
		t.Errorf("record not zeroed after Free: %+v", *s.Raw())
	}
	if got := buffers.Count(); got != before {
		t.Errorf("live buffers = %d, want %d", got, before)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	text := []uint16{'h', 'i', 0}
	rec := capi.String{Str: &text[0], Length: 2, Dtor: countingDtor()}

	before := countingCalls.Load()
	Release(&rec)
	Release(&rec)

	if got := countingCalls.Load() - before; got != 1 {
		t.Errorf("destructor called %d times, want 1", got)
	}
	if rec != (capi.String{}) {
		t.Errorf("record not zeroed: %+v", rec)
	}
}

func TestReleaseWithoutDtor(t *testing.T) {
	text := []uint16{'x'}
	rec := capi.String{Str: &text[0], Length: 1}

	before := countingCalls.Load()
	Release(&rec)
	if countingCalls.Load() != before {
		t.Error("no destructor should run for a borrowed record")
	}
	if rec != (capi.String{}) {
		t.Errorf("record not zeroed: %+v", rec)
	}

	Release(nil)
}

func TestIntoRawTransfersOwnership(t *testing.T) {
	before := buffers.Count()

	s, err := New("owned elsewhere")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	raw := s.IntoRaw()

	if *s.Raw() != (capi.String{}) {
		t.Error("source should be empty after IntoRaw")
	}
	s.Free() // must not free the transferred buffer

	if got := Decode(&raw); got != "owned elsewhere" {
		t.Errorf("transferred record decodes to %q", got)
	}

	Release(&raw)
	if got := buffers.Count(); got != before {
		t.Errorf("live buffers = %d, want %d", got, before)
	}
}

func TestSetFreesPrevious(t *testing.T) {
	before := buffers.Count()

	s, err := New("first")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Set("second"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if s.String() != "second" {
		t.Errorf("String = %q", s.String())
	}
	if got := buffers.Count() - before; got > 1 {
		t.Errorf("%d live buffers after Set, previous buffer leaked", got)
	}
	s.Free()
}

func TestEncodeInvalidUTF8(t *testing.T) {
	if native() {
		t.Skip("libcef converter loaded; host validation not used")
	}

	_, err := New("bad \xff\xfe bytes")
	if err == nil {
		t.Fatal("expected EncodingError for invalid UTF-8")
	}
	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected *EncodingError, got %T", err)
	}
	if encErr.Input != len("bad \xff\xfe bytes") {
		t.Errorf("Input = %d", encErr.Input)
	}
}

func TestDecodeEdgeCases(t *testing.T) {
	if Decode(nil) != "" {
		t.Error("nil record should decode to empty string")
	}
	if Decode(&capi.String{Length: 3}) != "" {
		t.Error("record with nil buffer should decode to empty string")
	}

	text := []uint16{'a', 0xD800, 'b'}
	got := Decode(&capi.String{Str: &text[0], Length: 3})
	if got != "a�b" {
		t.Errorf("unpaired surrogate decoded to %q", got)
	}
}

func TestEmptyAndNilString(t *testing.T) {
	if Empty() != (capi.String{}) {
		t.Error("Empty should be a zero record")
	}

	var s *String
	if s.String() != "" || s.Len() != 0 || s.Raw() != nil {
		t.Error("nil *String should behave as empty")
	}
	s.Free()

	if FromUserFree(nil) != "" {
		t.Error("nil userfree string should decode to empty")
	}
}

func TestConcurrentEncodeRelease(t *testing.T) {
	before := buffers.Count()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s, err := New("concurrent ✓")
				if err != nil {
					t.Error(err)
					return
				}
				s.Free()
			}
		}()
	}
	wg.Wait()

	if got := buffers.Count(); got != before {
		t.Errorf("live buffers = %d, want %d", got, before)
	}
}
