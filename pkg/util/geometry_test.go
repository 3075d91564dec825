package util

import (
	"math"
	"testing"
)

func almost(t *testing.T, got, want, tol float64, what string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %.12g, want %.12g", what, got, want)
	}
}

func TestAreaSphere(t *testing.T) {
	almost(t, AreaSphere(1), 4*math.Pi, 1e-12, "AreaSphere(1)")
	almost(t, AreaSphere(10), 400*math.Pi, 1e-9, "AreaSphere(10)")
}

func TestAreaCircle(t *testing.T) {
	almost(t, AreaCircle(2), 4*math.Pi, 1e-12, "AreaCircle(2)")
}

func TestAreaFrustumCylinder(t *testing.T) {
	// Equal radii degenerate to a cylinder mantle, 2*pi*r*h.
	almost(t, AreaFrustum(5, 1, 1), 10*math.Pi, 1e-12, "AreaFrustum(5,1,1)")
}

func TestAreaFrustumCone(t *testing.T) {
	// r2 = 0 degenerates to a cone mantle, pi*r*slant.
	slant := math.Sqrt(3*3 + 4*4)
	almost(t, AreaFrustum(3, 4, 0), math.Pi*4*slant, 1e-12, "AreaFrustum(3,4,0)")
	// Symmetric in the radii.
	almost(t, AreaFrustum(3, 1, 2), AreaFrustum(3, 2, 1), 1e-15, "radius symmetry")
}

func TestVolumeFrustum(t *testing.T) {
	// Equal radii degenerate to a cylinder, pi*r^2*h.
	almost(t, VolumeFrustum(4, 2, 2), 16*math.Pi, 1e-12, "VolumeFrustum(4,2,2)")
	// r2 = 0 degenerates to a cone, pi*r^2*h/3.
	almost(t, VolumeFrustum(3, 2, 0), 4*math.Pi, 1e-12, "VolumeFrustum(3,2,0)")
}

func TestMeanAndLerp(t *testing.T) {
	almost(t, Mean(1, 3), 2, 0, "Mean(1,3)")
	almost(t, Lerp(10, 20, 0), 10, 0, "Lerp 0")
	almost(t, Lerp(10, 20, 1), 20, 0, "Lerp 1")
	almost(t, Lerp(10, 20, 0.25), 12.5, 0, "Lerp 0.25")
}
