package v04

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/JaneliaSciComp/xarray-ome-ngff/ngff"
	"github.com/JaneliaSciComp/xarray-ome-ngff/xarray"
)

func TestCoordsFromTransforms(t *testing.T) {
	axes := []Axis{
		{Name: "z", Unit: "nanometer", Type: SpaceType},
		{Name: "y", Unit: "nanometer", Type: SpaceType},
	}
	transforms := []Transform{
		NewScale([]float64{2, 3}),
		NewTranslation([]float64{10, -1}),
	}
	coords, err := CoordsFromTransforms(axes, transforms, []int{3, 2})
	if err != nil {
		t.Fatalf("CoordsFromTransforms: %v\n", err)
	}
	if len(coords) != 2 {
		t.Fatalf("got %d coords, want 2\n", len(coords))
	}
	if !reflect.DeepEqual(coords[0].Values, []float64{10, 12, 14}) {
		t.Errorf("z values = %v, want [10 12 14]\n", coords[0].Values)
	}
	if !reflect.DeepEqual(coords[1].Values, []float64{-1, 2}) {
		t.Errorf("y values = %v, want [-1 2]\n", coords[1].Values)
	}
	if coords[0].Name != "z" || coords[0].Dims[0] != "z" {
		t.Errorf("coordinate not labeled by axis name: %+v\n", coords[0])
	}
	if coords[0].Attrs["unit"] != "nanometer" || coords[0].Attrs["type"] != SpaceType {
		t.Errorf("axis unit/type not carried into attrs: %v\n", coords[0].Attrs)
	}

	// a bare axis contributes no attrs
	bare, err := CoordsFromTransforms([]Axis{{Name: "x"}}, []Transform{NewScale([]float64{1})}, []int{2})
	if err != nil {
		t.Fatalf("CoordsFromTransforms: %v\n", err)
	}
	if len(bare[0].Attrs) != 0 {
		t.Errorf("bare axis should have empty attrs, got %v\n", bare[0].Attrs)
	}
}

func TestCoordsFromTransformsIdentity(t *testing.T) {
	coords, err := CoordsFromTransforms([]Axis{{Name: "x"}},
		[]Transform{NewIdentity(), NewScale([]float64{5})}, []int{3})
	if err != nil {
		t.Fatalf("CoordsFromTransforms: %v\n", err)
	}
	if !reflect.DeepEqual(coords[0].Values, []float64{0, 5, 10}) {
		t.Errorf("identity should be a no-op: %v\n", coords[0].Values)
	}
}

func TestCoordsFromTransformsErrors(t *testing.T) {
	axes := []Axis{{Name: "y"}, {Name: "x"}}

	_, err := CoordsFromTransforms(axes, nil, []int{3})
	var shapeErr ngff.ShapeMismatchError
	if !errors.As(err, &shapeErr) || shapeErr.NumAxes != 2 || shapeErr.NumDims != 1 {
		t.Errorf("expected ShapeMismatchError{2,1}, got %v\n", err)
	}

	_, err = CoordsFromTransforms(axes, []Transform{NewScale([]float64{1})}, []int{3, 4})
	var lenErr ngff.TransformLengthError
	if !errors.As(err, &lenErr) || lenErr.Type != ScaleType || lenErr.Length != 1 {
		t.Errorf("expected TransformLengthError for short scale, got %v\n", err)
	}

	_, err = CoordsFromTransforms(axes, []Transform{
		NewScale([]float64{1, 1}),
		NewTranslation([]float64{0, 0, 0}),
	}, []int{3, 4})
	if !errors.As(err, &lenErr) || lenErr.Type != TranslationType || lenErr.Length != 3 {
		t.Errorf("expected TransformLengthError for long translation, got %v\n", err)
	}

	// a path reference fails even when the rest of the chain is fine
	_, err = CoordsFromTransforms(axes, []Transform{
		NewScale([]float64{1, 1}),
		{Type: ScaleType, Path: "transforms/s0"},
	}, []int{3, 4})
	var refErr ngff.UnresolvedReferenceError
	if !errors.As(err, &refErr) || refErr.Path != "transforms/s0" {
		t.Errorf("expected UnresolvedReferenceError, got %v\n", err)
	}

	_, err = CoordsFromTransforms(axes, []Transform{{Type: "rotation"}}, []int{3, 4})
	var typeErr ngff.UnknownTransformTypeError
	if !errors.As(err, &typeErr) || typeErr.Type != "rotation" {
		t.Errorf("expected UnknownTransformTypeError, got %v\n", err)
	}
}

// Coordinates run through the encode direction and back must reproduce
// the original samples for regular grids.
func TestTransformRoundTrip(t *testing.T) {
	orig := []xarray.Coordinate{
		xarray.NewCoordinate("z", arange(10, 2, 5), map[string]interface{}{"unit": "nm"}),
		xarray.NewCoordinate("y", arange(-4, 0.5, 8), map[string]interface{}{"unit": "nm"}),
	}
	axes, scale, translation, _, err := TransformsFromCoords(orig, DefaultOptions())
	if err != nil {
		t.Fatalf("TransformsFromCoords: %v\n", err)
	}
	coords, err := CoordsFromTransforms(axes, []Transform{scale, translation}, []int{5, 8})
	if err != nil {
		t.Fatalf("CoordsFromTransforms: %v\n", err)
	}
	for i, coord := range coords {
		for j, v := range coord.Values {
			if math.Abs(v-orig[i].Values[j]) > 1e-9 {
				t.Errorf("coordinate %q sample %d: got %v, want %v\n",
					coord.Name, j, v, orig[i].Values[j])
			}
		}
	}
}

func TestFuseCoordinateTransforms(t *testing.T) {
	// empty base: dataset chain passes through, absent translation zero-filled
	scale, translation, err := FuseCoordinateTransforms(nil, []Transform{NewScale([]float64{2, 3})})
	if err != nil {
		t.Fatalf("FuseCoordinateTransforms: %v\n", err)
	}
	if !reflect.DeepEqual(scale.Scale, []float64{2, 3}) {
		t.Errorf("scale = %v, want [2 3]\n", scale.Scale)
	}
	if !reflect.DeepEqual(translation.Translation, []float64{0, 0}) {
		t.Errorf("translation = %v, want zeros\n", translation.Translation)
	}

	// scales multiply, translations add
	base := []Transform{NewScale([]float64{2, 2}), NewTranslation([]float64{1, 1})}
	dset := []Transform{NewScale([]float64{3, 4}), NewTranslation([]float64{10, 20})}
	scale, translation, err = FuseCoordinateTransforms(base, dset)
	if err != nil {
		t.Fatalf("FuseCoordinateTransforms: %v\n", err)
	}
	if !reflect.DeepEqual(scale.Scale, []float64{6, 8}) {
		t.Errorf("fused scale = %v, want [6 8]\n", scale.Scale)
	}
	if !reflect.DeepEqual(translation.Translation, []float64{11, 21}) {
		t.Errorf("fused translation = %v, want [11 21]\n", translation.Translation)
	}

	// one-sided translation is carried through
	scale, translation, err = FuseCoordinateTransforms(
		[]Transform{NewScale([]float64{2})},
		[]Transform{NewScale([]float64{3}), NewTranslation([]float64{5})})
	if err != nil {
		t.Fatalf("FuseCoordinateTransforms: %v\n", err)
	}
	if scale.Scale[0] != 6 || translation.Translation[0] != 5 {
		t.Errorf("one-sided fuse = %v/%v, want 6/5\n", scale.Scale, translation.Translation)
	}

	// identities in either chain are ignored
	scale, _, err = FuseCoordinateTransforms(
		[]Transform{NewIdentity(), NewScale([]float64{2})},
		[]Transform{NewScale([]float64{3}), NewIdentity()})
	if err != nil {
		t.Fatalf("FuseCoordinateTransforms: %v\n", err)
	}
	if scale.Scale[0] != 6 {
		t.Errorf("fuse with identities = %v, want 6\n", scale.Scale)
	}
}

// A translation whose length does not match the axes must not be padded or
// truncated during fusion; it passes through so decoding still rejects it.
func TestFuseCoordinateTransformsKeepsTranslationLength(t *testing.T) {
	axes := []Axis{{Name: "y"}, {Name: "x"}}
	scale, translation, err := FuseCoordinateTransforms(
		[]Transform{NewScale([]float64{2, 2})},
		[]Transform{NewScale([]float64{3, 3}), NewTranslation([]float64{5})})
	if err != nil {
		t.Fatalf("FuseCoordinateTransforms: %v\n", err)
	}
	if !reflect.DeepEqual(translation.Translation, []float64{5}) {
		t.Errorf("lone translation altered during fusion: %v, want [5]\n", translation.Translation)
	}
	_, err = CoordsFromTransforms(axes, []Transform{scale, translation}, []int{2, 2})
	var lenErr ngff.TransformLengthError
	if !errors.As(err, &lenErr) || lenErr.Type != TranslationType || lenErr.Length != 1 {
		t.Errorf("expected TransformLengthError for short translation, got %v\n", err)
	}

	// symmetric case: the lone translation sits in the base chain
	_, translation, err = FuseCoordinateTransforms(
		[]Transform{NewScale([]float64{2, 2}), NewTranslation([]float64{7, 8, 9})},
		[]Transform{NewScale([]float64{3, 3})})
	if err != nil {
		t.Fatalf("FuseCoordinateTransforms: %v\n", err)
	}
	if !reflect.DeepEqual(translation.Translation, []float64{7, 8, 9}) {
		t.Errorf("base translation altered during fusion: %v, want [7 8 9]\n", translation.Translation)
	}
}

func TestFuseCoordinateTransformsErrors(t *testing.T) {
	// dataset chain without a scale
	if _, _, err := FuseCoordinateTransforms(nil, []Transform{NewTranslation([]float64{1})}); err == nil {
		t.Errorf("expected error for dataset chain without scale\n")
	}

	// base and dataset scales of different lengths
	_, _, err := FuseCoordinateTransforms(
		[]Transform{NewScale([]float64{1, 1})},
		[]Transform{NewScale([]float64{1, 1, 1})})
	var lenErr ngff.TransformLengthError
	if !errors.As(err, &lenErr) {
		t.Errorf("expected TransformLengthError, got %v\n", err)
	}

	// a path reference anywhere poisons the fuse
	_, _, err = FuseCoordinateTransforms(
		[]Transform{{Type: ScaleType, Path: "elsewhere"}},
		[]Transform{NewScale([]float64{1})})
	var refErr ngff.UnresolvedReferenceError
	if !errors.As(err, &refErr) {
		t.Errorf("expected UnresolvedReferenceError, got %v\n", err)
	}
}
