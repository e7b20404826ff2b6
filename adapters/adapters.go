/*
	Package adapters selects a metadata codec implementation by NGFF
	version tag.  Each supported version contributes one Adapters value
	whose function fields cover the codec surface; callers dispatch once at
	the boundary and use the returned functions without further version
	checks.
*/
package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/JaneliaSciComp/xarray-ome-ngff/ngff"
	"github.com/JaneliaSciComp/xarray-ome-ngff/v04"
	"github.com/JaneliaSciComp/xarray-ome-ngff/xarray"
)

// Adapters bundles the codec operations of one metadata version.
type Adapters struct {
	NGFFVersion string

	MultiscaleMetadata func(levels []v04.Level, name, multiscaleType string, metadata json.RawMessage, opts v04.Options) (*v04.Multiscale, error)

	TransformsFromCoords func(coords []xarray.Coordinate, opts v04.Options) ([]v04.Axis, v04.Transform, v04.Transform, []ngff.Advisory, error)

	CoordsFromTransforms func(axes []v04.Axis, transforms []v04.Transform, shape []int) ([]xarray.Coordinate, error)

	FuseCoordinateTransforms func(baseTransforms, dsetTransforms []v04.Transform) (v04.Transform, v04.Transform, error)
}

// Get returns the adapters for an NGFF version tag, accepting both
// two-part ("0.4") and full semver ("0.4.0") forms.
func Get(version string) (Adapters, error) {
	v, err := ngff.ParseVersion(version)
	if err != nil {
		return Adapters{}, err
	}
	if v.Major == 0 && v.Minor == 4 && v.Patch == 0 {
		return Adapters{
			NGFFVersion:              v04.Version,
			MultiscaleMetadata:       v04.MultiscaleMetadata,
			TransformsFromCoords:     v04.TransformsFromCoords,
			CoordsFromTransforms:     v04.CoordsFromTransforms,
			FuseCoordinateTransforms: v04.FuseCoordinateTransforms,
		}, nil
	}
	return Adapters{}, fmt.Errorf("got version %q, but this is not one of the supported versions: %v",
		version, ngff.Versions)
}
