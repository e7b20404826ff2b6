package v04

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/JaneliaSciComp/xarray-ome-ngff/ngff"
	"github.com/JaneliaSciComp/xarray-ome-ngff/units"
	"github.com/JaneliaSciComp/xarray-ome-ngff/xarray"
)

// AxisFromCoord derives an Axis from one coordinate's dimension label and
// attributes.  Non-fatal oddities (legacy attribute keys, uninferable axis
// types) are returned as advisories; they never abort the operation.
func AxisFromCoord(coord xarray.Coordinate, opts Options) (Axis, []ngff.Advisory, error) {
	var advisories []ngff.Advisory

	if len(coord.Dims) != 1 {
		return Axis{}, nil, ngff.DimensionalityError{Coord: coord.Name, NumDims: len(coord.Dims)}
	}
	axis := Axis{Name: coord.Dims[0]}

	unit, unitFound, err := attrString(coord.Attrs, "unit")
	if err != nil {
		return Axis{}, nil, fmt.Errorf("coordinate %q: %w", coord.Name, err)
	}
	legacy, legacyFound, err := attrString(coord.Attrs, "units")
	if err != nil {
		return Axis{}, nil, fmt.Errorf("coordinate %q: %w", coord.Name, err)
	}
	switch {
	case unitFound && legacyFound:
		advisories = append(advisories, ngff.Advise(ngff.UnitKeyAmbiguity,
			"coordinate %q has both %q and %q attributes; using %q", coord.Name, "unit", "units", "unit"))
	case !unitFound && legacyFound:
		unit = legacy
		advisories = append(advisories, ngff.Advise(ngff.UnitKeyAmbiguity,
			"coordinate %q uses legacy attribute key %q; prefer %q", coord.Name, "units", "unit"))
	}

	if opts.NormalizeUnits && unit != "" {
		normalized, err := opts.registry().Name(unit)
		if err != nil {
			return Axis{}, nil, err
		}
		unit = normalized
	}
	axis.Unit = unit

	axisType, typeFound, err := attrString(coord.Attrs, "type")
	if err != nil {
		return Axis{}, nil, fmt.Errorf("coordinate %q: %w", coord.Name, err)
	}
	switch {
	case typeFound:
		axis.Type = axisType
	case opts.InferAxisType && unit != "":
		inferred, advisory, err := inferAxisType(opts.registry(), coord.Name, unit)
		if err != nil {
			return Axis{}, nil, err
		}
		axis.Type = inferred
		if advisory != nil {
			advisories = append(advisories, *advisory)
		}
	}
	return axis, advisories, nil
}

// inferAxisType maps a unit's dimensionality to a semantic axis type.  A
// unit spanning multiple base dimensions, or one that is neither a length
// nor a time, leaves the type unset with an advisory.
func inferAxisType(reg *units.Registry, coordName, unit string) (string, *ngff.Advisory, error) {
	dims, err := reg.Dimensionality(unit)
	if err != nil {
		return "", nil, err
	}
	if len(dims) > 1 {
		advisory := ngff.Advise(ngff.CompoundUnit,
			"failed to infer the type of axis %q because unit %q is a compound unit that cannot be mapped to a single axis type",
			coordName, unit)
		return "", &advisory, nil
	}
	if _, found := dims[units.Length]; found {
		return SpaceType, nil, nil
	}
	if _, found := dims[units.Time]; found {
		return TimeType, nil, nil
	}
	advisory := ngff.Advise(ngff.TypeInference,
		"failed to infer the type of axis %q from unit %q", coordName, unit)
	return "", &advisory, nil
}

// TransformsFromCoords generates axes and a scale + translation transform
// pair from the ordered coordinates of one array.  The translation is the
// first sample of each coordinate; the scale is the difference of the first
// two samples, defaulting to 1 for single-sample coordinates, from which no
// rate of change can be inferred.
//
// Note that no effort is made to ensure the coordinates represent a
// regular grid.
func TransformsFromCoords(coords []xarray.Coordinate, opts Options) ([]Axis, Transform, Transform, []ngff.Advisory, error) {
	var advisories []ngff.Advisory
	axes := make([]Axis, len(coords))
	scale := make([]float64, len(coords))
	translation := make([]float64, len(coords))

	for i, coord := range coords {
		if len(coord.Values) == 0 {
			return nil, Transform{}, Transform{}, nil, fmt.Errorf("coordinate %q has no samples", coord.Name)
		}
		translation[i] = coord.Values[0]
		if len(coord.Values) > 1 {
			scale[i] = math.Abs(coord.Values[1] - coord.Values[0])
		} else {
			scale[i] = 1
		}
		axis, axisAdvisories, err := AxisFromCoord(coord, opts)
		if err != nil {
			return nil, Transform{}, Transform{}, nil, err
		}
		axes[i] = axis
		advisories = append(advisories, axisAdvisories...)
	}
	if opts.TransformPrecision >= 0 {
		roundSlice(scale, opts.TransformPrecision)
		roundSlice(translation, opts.TransformPrecision)
	}
	return axes, NewScale(scale), NewTranslation(translation), advisories, nil
}

func roundSlice(values []float64, decimals int) {
	pow := math.Pow(10, float64(decimals))
	for i, v := range values {
		values[i] = math.Round(v*pow) / pow
	}
}

// Level pairs a hierarchy path with the labeled array stored there.  Level
// order is significant: ties in size ordering preserve input order.
type Level struct {
	Path  string
	Array *xarray.DataArray
}

// orderedCoords returns an array's coordinates in dimension order.
func orderedCoords(path string, array *xarray.DataArray) ([]xarray.Coordinate, error) {
	coords := make([]xarray.Coordinate, len(array.Dims))
	for i, dim := range array.Dims {
		coord, found := array.Coord(dim)
		if !found {
			return nil, fmt.Errorf("level %q has no coordinate for dimension %q", path, dim)
		}
		coords[i] = coord
	}
	return coords, nil
}

// MultiscaleMetadata creates multiscale metadata from pyramid levels.
// Levels are ordered by decreasing total element count, with ties keeping
// input order.  Every level must have the same rank and derive identical
// axes.
func MultiscaleMetadata(levels []Level, name, multiscaleType string, metadata json.RawMessage, opts Options) (*Multiscale, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("no pyramid levels given")
	}
	sorted := make([]Level, len(levels))
	copy(sorted, levels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Array.NumElements() > sorted[j].Array.NumElements()
	})

	ranks := map[int]bool{}
	for _, level := range sorted {
		ranks[level.Array.Rank()] = true
	}
	if len(ranks) > 1 {
		distinct := make([]int, 0, len(ranks))
		for r := range ranks {
			distinct = append(distinct, r)
		}
		sort.Ints(distinct)
		return nil, ngff.RankMismatchError{Ranks: distinct}
	}

	levelAxes := make([][]Axis, len(sorted))
	datasets := make([]Dataset, len(sorted))
	for i, level := range sorted {
		coords, err := orderedCoords(level.Path, level.Array)
		if err != nil {
			return nil, err
		}
		axes, scale, translation, _, err := TransformsFromCoords(coords, opts)
		if err != nil {
			return nil, fmt.Errorf("level %q: %w", level.Path, err)
		}
		levelAxes[i] = axes
		datasets[i] = Dataset{
			Path:                      level.Path,
			CoordinateTransformations: []Transform{scale, translation},
		}
	}

	distinctAxes := map[string]bool{}
	for _, axes := range levelAxes {
		distinctAxes[fmt.Sprintf("%v", axes)] = true
	}
	if len(distinctAxes) > 1 {
		return nil, ngff.InconsistentAxesError{NumDistinct: len(distinctAxes)}
	}

	ones := make([]float64, len(levelAxes[0]))
	for i := range ones {
		ones[i] = 1
	}
	return &Multiscale{
		Version:                   Version,
		Name:                      name,
		Type:                      multiscaleType,
		Axes:                      levelAxes[0],
		Datasets:                  datasets,
		CoordinateTransformations: []Transform{NewScale(ones)},
		Metadata:                  metadata,
	}, nil
}

// attrString reads a string-valued attribute.
func attrString(attrs map[string]interface{}, key string) (string, bool, error) {
	v, found := attrs[key]
	if !found {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", true, fmt.Errorf("attribute %q must be a string (%v)", key, v)
	}
	return s, true, nil
}
