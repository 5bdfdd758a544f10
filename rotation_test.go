package heron

import (
	"math"
	"testing"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

func TestR1R3(t *testing.T) {
	// Frame rotations: a positive angle maps inertial axes onto the rotated
	// frame.
	x := []float64{1, 0, 0}
	if got := MxV33(R3(math.Pi/2), x); !vectorsEqual(got, []float64{0, -1, 0}, 1e-12) {
		t.Fatalf("R3: got %+v", got)
	}
	y := []float64{0, 1, 0}
	if got := MxV33(R1(math.Pi/2), y); !vectorsEqual(got, []float64{0, 0, -1}, 1e-12) {
		t.Fatalf("R1: got %+v", got)
	}
	// Rotation about the own axis is the identity on that axis.
	z := []float64{0, 0, 1}
	if got := MxV33(R3(1.234), z); !vectorsEqual(got, z, 1e-12) {
		t.Fatalf("R3 moved its own axis: %+v", got)
	}
}

func TestR3R1R3Composition(t *testing.T) {
	θ1, θ2, θ3 := 0.2, 1.1, -0.7
	var inner, composed mat64.Dense
	inner.Mul(R1(θ2), R3(θ1))
	composed.Mul(R3(θ3), &inner)
	if !mat64.EqualApprox(R3R1R3(θ1, θ2, θ3), &composed, 1e-12) {
		t.Fatalf("closed form differs from composition:\n%v\n%v",
			mat64.Formatted(R3R1R3(θ1, θ2, θ3)), mat64.Formatted(&composed))
	}
}

func TestPQW2ECI(t *testing.T) {
	// From Vallado's COE2RV example (4th edition, page 119).
	i := Deg2rad(87.87)
	ω := Deg2rad(53.38)
	Ω := Deg2rad(227.89)
	R := PQW2ECI(i, ω, Ω, []float64{-466.7639, 11447.0219, 0})
	if !vectorsEqual(R, []float64{6525.368103709379, 6861.531814548294, 6449.118636407358}, 1e-6) {
		t.Fatalf("R: got %+v", R)
	}
	V := PQW2ECI(i, ω, Ω, []float64{-5.996222, 4.753601, 0})
	if !vectorsEqual(V, []float64{4.902278620687254, 5.533139558121602, -1.9757104281719946}, 1e-6) {
		t.Fatalf("V: got %+v", V)
	}
	// The rotation preserves norms.
	v := []float64{-3.457, 6.618, 2.533}
	if got := norm(PQW2ECI(i, ω, Ω, v)); !floats.EqualWithinAbs(got, norm(v), 1e-9) {
		t.Fatalf("norm not preserved: %v vs %v", got, norm(v))
	}
}
