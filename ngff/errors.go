/*
	This file holds the error taxonomy shared by the metadata codec and the
	storage layer.  Errors that carry payload (the offending axis, lengths,
	or paths) are typed so callers can retrieve the particulars with
	errors.As; pure conditions are package sentinels matchable with errors.Is.
*/

package ngff

import (
	"errors"
	"fmt"
)

var (
	// ErrHierarchyRoot is returned when asking for the parent of the node
	// at the top of a storage hierarchy.
	ErrHierarchyRoot = errors.New("node is at hierarchy root and has no parent")

	// ErrMetadataNotFound is returned when an upward walk of the storage
	// hierarchy exhausts all ancestors without finding governing multiscale
	// metadata.
	ErrMetadataNotFound = errors.New("no governing multiscale metadata found in hierarchy")
)

// DimensionalityError is returned when a coordinate does not span exactly
// one dimension, which makes it unusable for axis inference.
type DimensionalityError struct {
	Coord   string
	NumDims int
}

func (e DimensionalityError) Error() string {
	return fmt.Sprintf("coordinate %q must span one and only one dimension, got %d", e.Coord, e.NumDims)
}

// UnknownUnitError is returned when a unit string cannot be resolved by the
// unit registry.
type UnknownUnitError struct {
	Unit string
}

func (e UnknownUnitError) Error() string {
	return fmt.Sprintf("unit %q is not defined in the unit registry", e.Unit)
}

// RankMismatchError is returned when the levels of a pyramid do not all have
// the same number of dimensions.
type RankMismatchError struct {
	Ranks []int
}

func (e RankMismatchError) Error() string {
	return fmt.Sprintf("pyramid levels must share one rank, got %d distinct ranks %v", len(e.Ranks), e.Ranks)
}

// InconsistentAxesError is returned when pyramid levels derive divergent axis
// lists, which cannot be represented in one multiscale document.
type InconsistentAxesError struct {
	NumDistinct int
}

func (e InconsistentAxesError) Error() string {
	return fmt.Sprintf("pyramid levels derive %d distinct axis sets, but a multiscale requires exactly one", e.NumDistinct)
}

// ShapeMismatchError is returned when the number of axes does not match the
// number of dimensions of an output shape.
type ShapeMismatchError struct {
	NumAxes int
	NumDims int
}

func (e ShapeMismatchError) Error() string {
	return fmt.Sprintf("got %d axes but shape has %d dimensions", e.NumAxes, e.NumDims)
}

// TransformLengthError is returned when a scale or translation carries a
// parameter vector whose length does not match the axis count.
type TransformLengthError struct {
	Type    string
	Length  int
	NumAxes int
}

func (e TransformLengthError) Error() string {
	return fmt.Sprintf("%s parameter has length %d which does not match the number of axes %d",
		e.Type, e.Length, e.NumAxes)
}

// UnresolvedReferenceError is returned when a transform carries a path to
// externally stored parameters instead of literal values.
type UnresolvedReferenceError struct {
	Path string
}

func (e UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("transform references external parameters at %q; resolve it to a literal scale or translation", e.Path)
}

// UnknownTransformTypeError is returned for transform tags other than
// scale, translation, or identity.
type UnknownTransformTypeError struct {
	Type string
}

func (e UnknownTransformTypeError) Error() string {
	return fmt.Sprintf("transform type %q not recognized; must be one of scale, translation, or identity", e.Type)
}

// SchemaValidationError is returned when a metadata document does not
// conform to the multiscales schema.
type SchemaValidationError struct {
	Err error
}

func (e SchemaValidationError) Error() string {
	return fmt.Sprintf("multiscale metadata failed schema validation: %v", e.Err)
}

func (e SchemaValidationError) Unwrap() error {
	return e.Err
}
