package cluster

import "testing"

func TestProjectUnprojectRoundTrip(t *testing.T) {
	cases := []struct{ lon, lat float64 }{
		{0, 0},
		{-122.4194, 37.7749},
		{179.9, -85.0},
		{-179.9, 85.0},
	}

	for _, c := range cases {
		x, y := project(c.lon, c.lat)
		lon, lat := unproject(x, y)
		if diff := lon - c.lon; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("unproject(project(%v, %v)) lon = %v, want %v", c.lon, c.lat, lon, c.lon)
		}
		if diff := lat - c.lat; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("unproject(project(%v, %v)) lat = %v, want %v", c.lon, c.lat, lat, c.lat)
		}
	}
}

func TestLatYClampsAtPoles(t *testing.T) {
	if y := latY(90); y != 0 {
		t.Errorf("latY(90) = %v, want 0", y)
	}
	if y := latY(-90); y != 1 {
		t.Errorf("latY(-90) = %v, want 1", y)
	}
}

func TestLngXNormalizesFullCircle(t *testing.T) {
	if x := lngX(-180); x != 0 {
		t.Errorf("lngX(-180) = %v, want 0", x)
	}
	if x := lngX(180); x != 1 {
		t.Errorf("lngX(180) = %v, want 1", x)
	}
}
