/*
	Package v04 implements version 0.4 of the OME-NGFF multiscale image
	metadata format: inferring per-axis scale and translation transforms
	from labeled coordinate arrays, composing hierarchical transform chains,
	reconstructing coordinates from transforms, and materializing or reading
	multiscale groups in a storage hierarchy.
*/
package v04

import (
	"encoding/json"
)

// Version is the NGFF metadata version this package implements.
const Version = "0.4"

// Axis is a named dimension with an optional physical unit and semantic
// type.  Empty Unit or Type means the field is absent from the metadata.
type Axis struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	Unit string `json:"unit,omitempty"`
}

// Semantic axis types defined by the metadata format.
const (
	SpaceType   = "space"
	TimeType    = "time"
	ChannelType = "channel"
)

// Transform type tags.
const (
	ScaleType       = "scale"
	TranslationType = "translation"
	IdentityType    = "identity"
)

// Transform is one tagged coordinate transformation.  Exactly one of the
// parameter fields is populated according to Type; a Path in place of
// literal parameters is schema-legal but unsupported by the decode path.
type Transform struct {
	Type        string    `json:"type"`
	Scale       []float64 `json:"scale,omitempty"`
	Translation []float64 `json:"translation,omitempty"`
	Path        string    `json:"path,omitempty"`
}

// NewScale returns a scale transform with the given per-axis factors.
func NewScale(factors []float64) Transform {
	return Transform{Type: ScaleType, Scale: factors}
}

// NewTranslation returns a translation transform with the given per-axis
// offsets.
func NewTranslation(offsets []float64) Transform {
	return Transform{Type: TranslationType, Translation: offsets}
}

// NewIdentity returns the identity transform.
func NewIdentity() Transform {
	return Transform{Type: IdentityType}
}

// Dataset describes one resolution level: the path of its array within the
// multiscale group and the transform chain mapping its index space to
// physical coordinates.
type Dataset struct {
	Path                      string      `json:"path"`
	CoordinateTransformations []Transform `json:"coordinateTransformations"`
}

// Multiscale describes one pyramid: shared axes, per-level datasets ordered
// by decreasing size, and an optional base transform chain applying to
// every level.
type Multiscale struct {
	Version                   string          `json:"version,omitempty"`
	Name                      string          `json:"name,omitempty"`
	Type                      string          `json:"type,omitempty"`
	Axes                      []Axis          `json:"axes"`
	Datasets                  []Dataset       `json:"datasets"`
	CoordinateTransformations []Transform     `json:"coordinateTransformations,omitempty"`
	Metadata                  json.RawMessage `json:"metadata,omitempty"`
}

// GroupAttrs is the metadata document persisted in a multiscale group's
// attribute slot.
type GroupAttrs struct {
	Multiscales []Multiscale `json:"multiscales"`
}
