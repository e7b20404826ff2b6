/*
	Package xarray provides labeled N-dimensional arrays: an array handle
	paired with named dimensions and per-dimension coordinate values, plus
	the wrapper strategies that turn stored arrays into application-facing
	array objects.
*/
package xarray

import (
	"fmt"
)

// Arrayish is the minimal contract an array object must satisfy to
// participate in a labeled array.
type Arrayish interface {
	Shape() []int
	DType() string
}

// Coordinate is one labeled coordinate: sample values spanning one
// dimension, with attached key/value attributes.
type Coordinate struct {
	// Name of the coordinate, conventionally the dimension it spans.
	Name string

	// Dims lists the dimensions this coordinate spans.  Coordinates used
	// for axis inference must span exactly one dimension.
	Dims []string

	// Values holds the sample values.
	Values []float64

	// Attrs carries attributes such as "unit" and "type".
	Attrs map[string]interface{}
}

// NewCoordinate returns a one-dimensional coordinate for the given dim.
func NewCoordinate(dim string, values []float64, attrs map[string]interface{}) Coordinate {
	return Coordinate{Name: dim, Dims: []string{dim}, Values: values, Attrs: attrs}
}

// DataArray is an array with named dimensions and coordinates.  It is a
// value object: constructed fresh on each encode or decode call and never
// mutated afterward.
type DataArray struct {
	Data   Arrayish
	Dims   []string
	Coords []Coordinate
	Attrs  map[string]interface{}
}

// NewDataArray validates that dims match the data shape and that every
// coordinate spans a named dimension with matching length.
func NewDataArray(data Arrayish, dims []string, coords []Coordinate) (*DataArray, error) {
	shape := data.Shape()
	if len(dims) != len(shape) {
		return nil, fmt.Errorf("got %d dims for data of rank %d", len(dims), len(shape))
	}
	byName := make(map[string]int, len(dims))
	for i, d := range dims {
		byName[d] = i
	}
	for _, c := range coords {
		if len(c.Dims) != 1 {
			continue // multi-dimensional coordinates are carried but never validated here
		}
		i, found := byName[c.Dims[0]]
		if !found {
			return nil, fmt.Errorf("coordinate %q spans unknown dimension %q", c.Name, c.Dims[0])
		}
		if len(c.Values) != shape[i] {
			return nil, fmt.Errorf("coordinate %q has %d samples but dimension %q has size %d",
				c.Name, len(c.Values), c.Dims[0], shape[i])
		}
	}
	return &DataArray{Data: data, Dims: dims, Coords: coords}, nil
}

// Shape returns the shape of the underlying data.
func (d *DataArray) Shape() []int {
	return d.Data.Shape()
}

// Rank returns the number of dimensions.
func (d *DataArray) Rank() int {
	return len(d.Dims)
}

// NumElements returns the total element count, used to order pyramid levels
// by decreasing size.
func (d *DataArray) NumElements() int {
	n := 1
	for _, s := range d.Shape() {
		n *= s
	}
	return n
}

// Coord returns the coordinate with the given name.
func (d *DataArray) Coord(name string) (Coordinate, bool) {
	for _, c := range d.Coords {
		if c.Name == name {
			return c, true
		}
	}
	return Coordinate{}, false
}

// MemArray is an in-memory Arrayish holding raw C-order bytes.
type MemArray struct {
	ArrayShape []int
	ArrayDType string
	Bytes      []byte
}

func (m *MemArray) Shape() []int {
	return m.ArrayShape
}

func (m *MemArray) DType() string {
	return m.ArrayDType
}
