package quantities

import "testing"

func TestNewIdentityTransformsDiagonal(t *testing.T) {
	tr, err := NewIdentityTransforms(4, 4)
	if err != nil {
		t.Fatalf("NewIdentityTransforms: %v", err)
	}
	for o := 0; o < 8; o++ {
		a := tr.AFromM(o)
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				want := 0.0
				if i == j {
					want = 1.0
				}
				if got := a.At(i, j); got != want {
					t.Errorf("octant %d AFromM(%d,%d) = %v, want %v", o, i, j, got, want)
				}
			}
		}
	}
}

func TestNewIdentityTransformsRectangularTruncation(t *testing.T) {
	tr, err := NewIdentityTransforms(2, 5)
	if err != nil {
		t.Fatalf("NewIdentityTransforms: %v", err)
	}
	a := tr.AFromM(0)
	rows, cols := a.Dims()
	if rows != 2 || cols != 5 {
		t.Fatalf("AFromM dims = (%d,%d), want (2,5)", rows, cols)
	}
	if a.At(0, 0) != 1 || a.At(1, 1) != 1 {
		t.Errorf("expected leading diagonal set to 1")
	}
	if a.At(0, 1) != 0 {
		t.Errorf("expected off-diagonal zero")
	}
}

func TestNewIdentityTransformsRejectsNonPositive(t *testing.T) {
	if _, err := NewIdentityTransforms(0, 4); err == nil {
		t.Errorf("expected error for na=0")
	}
	if _, err := NewIdentityTransforms(4, 0); err == nil {
		t.Errorf("expected error for nm=0")
	}
}
