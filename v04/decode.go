package v04

import (
	"github.com/JaneliaSciComp/xarray-ome-ngff/ngff"
	"github.com/JaneliaSciComp/xarray-ome-ngff/xarray"
)

// CoordsFromTransforms reconstructs per-axis coordinate values for an
// output shape by applying a transform chain, in order, to the index space
// of each axis.  Only literal transforms are accepted; a transform carrying
// a path reference fails with UnresolvedReferenceError.
func CoordsFromTransforms(axes []Axis, transforms []Transform, shape []int) ([]xarray.Coordinate, error) {
	if len(axes) != len(shape) {
		return nil, ngff.ShapeMismatchError{NumAxes: len(axes), NumDims: len(shape)}
	}

	// Reject bad transforms before building any coordinate so a failure
	// never yields partial results.
	for _, tx := range transforms {
		if tx.Path != "" {
			return nil, ngff.UnresolvedReferenceError{Path: tx.Path}
		}
		switch tx.Type {
		case ScaleType:
			if len(tx.Scale) != len(axes) {
				return nil, ngff.TransformLengthError{Type: ScaleType, Length: len(tx.Scale), NumAxes: len(axes)}
			}
		case TranslationType:
			if len(tx.Translation) != len(axes) {
				return nil, ngff.TransformLengthError{Type: TranslationType, Length: len(tx.Translation), NumAxes: len(axes)}
			}
		case IdentityType:
		default:
			return nil, ngff.UnknownTransformTypeError{Type: tx.Type}
		}
	}

	coords := make([]xarray.Coordinate, len(axes))
	for i, axis := range axes {
		values := make([]float64, shape[i])
		for j := range values {
			values[j] = float64(j)
		}
		for _, tx := range transforms {
			switch tx.Type {
			case ScaleType:
				for j := range values {
					values[j] *= tx.Scale[i]
				}
			case TranslationType:
				for j := range values {
					values[j] += tx.Translation[i]
				}
			case IdentityType:
				// no-op
			}
		}
		attrs := map[string]interface{}{}
		if axis.Unit != "" {
			attrs["unit"] = axis.Unit
		}
		if axis.Type != "" {
			attrs["type"] = axis.Type
		}
		coords[i] = xarray.NewCoordinate(axis.Name, values, attrs)
	}
	return coords, nil
}

// FuseCoordinateTransforms composes a pyramid-wide base transform chain
// with one level's transform chain into a single effective scale +
// translation pair.  Scales multiply elementwise and translations add
// elementwise; absent translations contribute zero.
func FuseCoordinateTransforms(baseTransforms, dsetTransforms []Transform) (Transform, Transform, error) {
	dsetScale, dsetTranslation, err := splitChain(dsetTransforms)
	if err != nil {
		return Transform{}, Transform{}, err
	}
	if dsetScale == nil {
		return Transform{}, Transform{}, ngff.UnknownTransformTypeError{Type: "missing scale"}
	}

	if len(baseTransforms) == 0 {
		outScale := *dsetScale
		if dsetTranslation != nil {
			return outScale, *dsetTranslation, nil
		}
		return outScale, NewTranslation(make([]float64, len(outScale.Scale))), nil
	}

	baseScale, baseTranslation, err := splitChain(baseTransforms)
	if err != nil {
		return Transform{}, Transform{}, err
	}
	if baseScale == nil {
		return Transform{}, Transform{}, ngff.UnknownTransformTypeError{Type: "missing scale"}
	}
	if len(baseScale.Scale) != len(dsetScale.Scale) {
		return Transform{}, Transform{}, ngff.TransformLengthError{
			Type: ScaleType, Length: len(baseScale.Scale), NumAxes: len(dsetScale.Scale),
		}
	}

	outScale := make([]float64, len(dsetScale.Scale))
	for i := range outScale {
		outScale[i] = baseScale.Scale[i] * dsetScale.Scale[i]
	}

	// A lone translation passes through unchanged so a length mismatch
	// against the axes still surfaces downstream.
	switch {
	case baseTranslation == nil && dsetTranslation == nil:
		return NewScale(outScale), NewTranslation(make([]float64, len(outScale))), nil
	case baseTranslation == nil:
		return NewScale(outScale), *dsetTranslation, nil
	case dsetTranslation == nil:
		return NewScale(outScale), *baseTranslation, nil
	}
	if len(baseTranslation.Translation) != len(dsetTranslation.Translation) {
		return Transform{}, Transform{}, ngff.TransformLengthError{
			Type:    TranslationType,
			Length:  len(baseTranslation.Translation),
			NumAxes: len(dsetTranslation.Translation),
		}
	}
	outTranslation := make([]float64, len(dsetTranslation.Translation))
	for i := range outTranslation {
		outTranslation[i] = baseTranslation.Translation[i] + dsetTranslation.Translation[i]
	}
	return NewScale(outScale), NewTranslation(outTranslation), nil
}

// splitChain picks the scale and optional translation out of a transform
// chain, ignoring identities.
func splitChain(transforms []Transform) (scale, translation *Transform, err error) {
	for i := range transforms {
		tx := transforms[i]
		if tx.Path != "" {
			return nil, nil, ngff.UnresolvedReferenceError{Path: tx.Path}
		}
		switch tx.Type {
		case ScaleType:
			scale = &tx
		case TranslationType:
			translation = &tx
		case IdentityType:
		default:
			return nil, nil, ngff.UnknownTransformTypeError{Type: tx.Type}
		}
	}
	return
}
