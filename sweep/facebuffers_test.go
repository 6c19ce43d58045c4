package sweep

import "testing"

func TestTripleBufferRotation(t *testing.T) {
	cases := []struct {
		step                  int
		wantCompute, wantSend, wantRecv int
	}{
		{0, 0, 2, 1},
		{1, 1, 0, 2},
		{2, 2, 1, 0},
		{3, 0, 2, 1},
	}
	for _, c := range cases {
		if got := computeIdx(c.step); got != c.wantCompute {
			t.Errorf("computeIdx(%d) = %d, want %d", c.step, got, c.wantCompute)
		}
		if got := sendIdx(c.step); got != c.wantSend {
			t.Errorf("sendIdx(%d) = %d, want %d", c.step, got, c.wantSend)
		}
		if got := recvIdx(c.step); got != c.wantRecv {
			t.Errorf("recvIdx(%d) = %d, want %d", c.step, got, c.wantRecv)
		}
	}
}

func TestFaceBuffersOctantSlicesDisjoint(t *testing.T) {
	dimsB := Dimensions{NX: 2, NY: 2, NZ: 2, NE: 1, NM: 2, NA: 2}
	noctant := 2
	fb := NewFaceBuffers(dimsB, noctant)

	buf := fb.FaceXZForStep(0)
	s0 := fb.FaceXZOctantSlice(buf, 0)
	s1 := fb.FaceXZOctantSlice(buf, 1)
	if len(s0) != len(s1) {
		t.Fatalf("octant slices have different lengths: %d vs %d", len(s0), len(s1))
	}
	s0[0] = 1
	if s1[0] == 1 {
		t.Errorf("octant slices alias each other")
	}
}
