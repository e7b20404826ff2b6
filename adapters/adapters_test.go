package adapters

import (
	"testing"

	"github.com/JaneliaSciComp/xarray-ome-ngff/v04"
	"github.com/JaneliaSciComp/xarray-ome-ngff/xarray"
)

func TestGet(t *testing.T) {
	for _, tag := range []string{"0.4", "0.4.0"} {
		adapters, err := Get(tag)
		if err != nil {
			t.Fatalf("Get(%q): %v\n", tag, err)
		}
		if adapters.NGFFVersion != v04.Version {
			t.Errorf("Get(%q) version = %q, want %q\n", tag, adapters.NGFFVersion, v04.Version)
		}
		if adapters.MultiscaleMetadata == nil || adapters.TransformsFromCoords == nil ||
			adapters.CoordsFromTransforms == nil || adapters.FuseCoordinateTransforms == nil {
			t.Errorf("Get(%q) left codec functions unset\n", tag)
		}
	}
}

func TestGetDispatch(t *testing.T) {
	adapters, err := Get("0.4")
	if err != nil {
		t.Fatalf("Get: %v\n", err)
	}
	coords := []xarray.Coordinate{
		xarray.NewCoordinate("x", []float64{10, 12, 14}, map[string]interface{}{"unit": "nm"}),
	}
	axes, scale, translation, _, err := adapters.TransformsFromCoords(coords, v04.DefaultOptions())
	if err != nil {
		t.Fatalf("TransformsFromCoords: %v\n", err)
	}
	if axes[0].Unit != "nanometer" || scale.Scale[0] != 2 || translation.Translation[0] != 10 {
		t.Errorf("dispatched codec gave axes=%+v scale=%v translation=%v\n",
			axes, scale.Scale, translation.Translation)
	}
}

func TestGetUnsupported(t *testing.T) {
	for _, tag := range []string{"0.5", "0.4.9", "1.0", "bogus"} {
		if _, err := Get(tag); err == nil {
			t.Errorf("Get(%q) should fail\n", tag)
		}
	}
}
