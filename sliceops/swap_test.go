package sliceops

import (
	"reflect"
	"testing"
)

func TestSwapBuf(t *testing.T) {
	in := []byte{1, 2, 3, 4, 5}
	out := SwapBuf(in)
	if !reflect.DeepEqual(out, []byte{5, 4, 3, 2, 1}) {
		t.Fatalf("got %v", out)
	}
	if !reflect.DeepEqual(in, []byte{1, 2, 3, 4, 5}) {
		t.Fatalf("input modified: %v", in)
	}
	if len(SwapBuf(nil)) != 0 {
		t.Fatal("expected empty result")
	}
}

func TestWindow(t *testing.T) {
	b := []byte{0, 1, 2, 3, 4, 5}
	tests := []struct {
		start, end int
		want       []byte
	}{
		{1, 4, []byte{1, 2, 3}},
		{-2, 2, []byte{0, 1}},
		{4, 10, []byte{4, 5}},
		{4, 4, []byte{}},
		{5, 2, []byte{}},
	}
	for _, tt := range tests {
		got := Window(b, tt.start, tt.end)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Window(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}

	// appending to a window must not clobber the source
	w := Window(b, 0, 2)
	_ = append(w, 0xff)
	if b[2] != 2 {
		t.Fatalf("source overwritten: %v", b)
	}
}
