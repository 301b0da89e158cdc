package h4

import (
	"bytes"
	"testing"
	"time"
)

func collect(c chan []byte) [][]byte {
	var out [][]byte
	for {
		select {
		case b := <-c:
			out = append(out, b)
		default:
			return out
		}
	}
}

func TestFrameAssemble(t *testing.T) {
	evt1 := []byte{0x04, 0x0e, 0x04, 0x01, 0x0c, 0x20, 0x00}
	evt2 := []byte{0x04, 0x3e, 0x02, 0x02, 0x00}

	tests := []struct {
		name   string
		chunks [][]byte
		want   [][]byte
	}{
		{
			name:   "single",
			chunks: [][]byte{evt1},
			want:   [][]byte{evt1},
		},
		{
			name:   "split",
			chunks: [][]byte{evt1[:2], evt1[2:5], evt1[5:]},
			want:   [][]byte{evt1},
		},
		{
			name:   "two in one chunk",
			chunks: [][]byte{append(append([]byte{}, evt1...), evt2...)},
			want:   [][]byte{evt1, evt2},
		},
		{
			name:   "garbage before start",
			chunks: [][]byte{append([]byte{0xaa, 0xbb}, evt2...)},
			want:   [][]byte{evt2},
		},
		{
			name:   "incomplete",
			chunks: [][]byte{evt1[:4]},
			want:   nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := make(chan []byte, 8)
			f := newFrame(c, make(chan int))
			for _, b := range tc.chunks {
				f.Assemble(b)
			}
			got := collect(c)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d frames, got %d", len(tc.want), len(got))
			}
			for i := range got {
				if !bytes.Equal(got[i], tc.want[i]) {
					t.Fatalf("frame %d: expected [% x], got [% x]", i, tc.want[i], got[i])
				}
			}
		})
	}
}

func TestFrameTimeout(t *testing.T) {
	c := make(chan []byte, 8)
	f := newFrame(c, make(chan int))
	f.Assemble([]byte{0x04, 0x3e, 0x05, 0x02})
	f.timeout = time.Now().Add(-time.Millisecond)

	evt := []byte{0x04, 0x3e, 0x02, 0x02, 0x00}
	f.Assemble(evt)

	got := collect(c)
	if len(got) != 1 || !bytes.Equal(got[0], evt) {
		t.Fatalf("expected stale partial to be dropped, got %v", got)
	}
}
