package quantities

import (
	"math"
	"testing"
)

func TestAttenuationInitFacesReturnSource(t *testing.T) {
	a, err := NewAttenuation(2, 2, 4, 0.5, 3.0)
	if err != nil {
		t.Fatalf("NewAttenuation: %v", err)
	}
	if v := a.InitFaceXY(0, 0, 0, 0, 0, 0, 0); v != 3.0 {
		t.Errorf("InitFaceXY = %v, want 3.0", v)
	}
}

func TestAttenuationSolveAppliesExponential(t *testing.T) {
	a, err := NewAttenuation(1, 1, 1, 1.0, 0)
	if err != nil {
		t.Fatalf("NewAttenuation: %v", err)
	}
	vLocal := []float64{0}
	facexy := []float64{3}
	facexz := []float64{3}
	faceyz := []float64{3}

	a.Solve(vLocal, facexy, facexz, faceyz, SolveArgs{})

	want := 3.0 * math.Exp(-1.0)
	if math.Abs(vLocal[0]-want) > 1e-12 {
		t.Errorf("vLocal[0] = %v, want %v", vLocal[0], want)
	}
}

func TestAttenuationZeroCrossSectionIsLossless(t *testing.T) {
	a, err := NewAttenuation(1, 1, 1, 0, 0)
	if err != nil {
		t.Fatalf("NewAttenuation: %v", err)
	}
	vLocal := []float64{0}
	facexy := []float64{2}
	facexz := []float64{2}
	faceyz := []float64{2}

	a.Solve(vLocal, facexy, facexz, faceyz, SolveArgs{})
	if vLocal[0] != 2 {
		t.Errorf("vLocal[0] = %v, want 2 (no attenuation)", vLocal[0])
	}
}
