package photometry

import (
	"math"
	"testing"

	"github.com/signalsfoundry/solary/geometry"
)

const irradianceZeroPoint = 2.518021002e-8

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestAppMagToIrradiance(t *testing.T) {
	if got := AppMagToIrradiance(0, irradianceZeroPoint); !approx(got, irradianceZeroPoint, 1e-18) {
		t.Fatalf("mag 0 irradiance = %v, want %v", got, irradianceZeroPoint)
	}
	if got := AppMagToIrradiance(-5, irradianceZeroPoint); !approx(got, irradianceZeroPoint*100.0, 1e-15) {
		t.Fatalf("mag -5 irradiance = %v, want %v", got, irradianceZeroPoint*100.0)
	}
	if got := AppMagToIrradiance(1, irradianceZeroPoint); !approx(got, 1.0024422165005002e-08, 1e-18) {
		t.Fatalf("mag 1 irradiance = %v", got)
	}
}

func TestSurfaceIntegratedRoundTrip(t *testing.T) {
	const area = 1266.8 * 1271.8

	intMag := SurfaceToIntegratedMag(19.0, area)
	if intMag >= 19.0 {
		t.Fatalf("integrated magnitude %v should be brighter than surface brightness 19", intMag)
	}
	if back := IntegratedToSurfaceMag(intMag, area); !approx(back, 19.0, 1e-12) {
		t.Fatalf("round trip = %v, want 19", back)
	}
	if got := SurfaceToIntegratedMag(20.0, 1.0); got != 20.0 {
		t.Fatalf("unit area should not change magnitude, got %v", got)
	}
}

func TestPhaseFunc(t *testing.T) {
	for _, idx := range []int{1, 2} {
		got, err := PhaseFunc(idx, 0)
		if err != nil {
			t.Fatalf("PhaseFunc(%d, 0): %v", idx, err)
		}
		if got != 1.0 {
			t.Fatalf("PhaseFunc(%d, 0) = %v, want 1", idx, got)
		}
	}

	phi1, _ := PhaseFunc(1, math.Pi/2.0)
	if !approx(phi1, 0.03579310506765532, 1e-12) {
		t.Fatalf("phi1(pi/2) = %v", phi1)
	}
	phi2, _ := PhaseFunc(2, math.Pi/2.0)
	if !approx(phi2, 0.15412366181513143, 1e-12) {
		t.Fatalf("phi2(pi/2) = %v", phi2)
	}

	if _, err := PhaseFunc(3, 0); err == nil {
		t.Fatalf("expected error for unknown phase function index")
	}
}

func TestReducedMag(t *testing.T) {
	if got := ReducedMag(0, 0.15, 0); got != 0 {
		t.Fatalf("ReducedMag at zero phase = %v, want 0", got)
	}
	if got := ReducedMag(0, 0.15, math.Pi/2.0); !approx(got, 3.178249562605391, 1e-10) {
		t.Fatalf("ReducedMag at pi/2 = %v", got)
	}
}

func TestHGAppMag(t *testing.T) {
	obj1 := geometry.Vec3{X: 2}
	obs1 := geometry.Vec3{X: 1}
	mag1 := HGAppMag(0, 0.15, obs1.Sub(obj1), obj1.Inverse())
	if !approx(mag1, 1.505149978319906, 1e-12) {
		t.Fatalf("mag1 = %v", mag1)
	}

	obj2 := geometry.Vec3{X: 3}
	mag2 := HGAppMag(3.4, 0.12, obs1.Sub(obj2), obj2.Inverse())
	if !approx(mag2, 7.290756251918218, 1e-12) {
		t.Fatalf("mag2 = %v", mag2)
	}

	// Same heliocentric distance but off-axis: a non-zero phase angle dims the object.
	obj3 := geometry.Vec3{Y: 3}
	mag3 := HGAppMag(3.4, 0.12, obs1.Sub(obj3), obj3.Inverse())
	if mag3 <= mag2 {
		t.Fatalf("expected off-axis magnitude %v to be fainter than %v", mag3, mag2)
	}
}
