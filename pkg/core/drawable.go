package core

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Kind identifies the geometry variant of a Drawable.
type Kind int

const (
	KindSphere Kind = iota
	KindArrow
	KindCone
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindArrow:
		return "arrow"
	case KindCone:
		return "cone"
	default:
		return "unknown"
	}
}

// Default alpha per category.
const (
	SphereAlpha float32 = 0.5
	ConeAlpha   float32 = 0.7
	ArrowAlpha  float32 = 1.0
)

// ConeHeight is the fixed height of a friction cone.
const ConeHeight = 0.2

// Geometry is the variant payload of a Drawable. Only the types in this
// package implement it.
type Geometry interface {
	Kind() Kind
	isGeometry()
}

// Sphere is a ball centred on Center.
type Sphere struct {
	Center Vec3
	Radius float64
}

// Arrow points from Tail to Head. ShaftScale multiplies the default shaft,
// head and length widths.
type Arrow struct {
	Tail       Vec3
	Head       Vec3
	ShaftScale float64
}

// Cone is a friction cone with its apex at the contact point and its base
// opening along the contact normal.
type Cone struct {
	Apex       Vec3
	BaseCenter Vec3
	BaseRadius float64
	Height     float64
}

func (Sphere) Kind() Kind { return KindSphere }
func (Arrow) Kind() Kind  { return KindArrow }
func (Cone) Kind() Kind   { return KindCone }

func (Sphere) isGeometry() {}
func (Arrow) isGeometry()  {}
func (Cone) isGeometry()   {}

// NewArrow builds an arrow starting at start and spanning vector.
func NewArrow(start, vector Vec3, scale float64) Arrow {
	return Arrow{
		Tail:       start,
		Head:       r3.Add(start, vector),
		ShaftScale: scale,
	}
}

// NewFrictionCone derives a cone from a contact origin, a unit contact
// normal and a friction coefficient.
func NewFrictionCone(origin, normal Vec3, frictionCoeff float64) Cone {
	return Cone{
		Apex:       origin,
		BaseCenter: r3.Add(origin, r3.Scale(ConeHeight, normal)),
		BaseRadius: frictionCoeff * ConeHeight,
		Height:     ConeHeight,
	}
}

// Drawable is a single visual primitive waiting in a batch.
// ID is assigned by the batch on insertion.
type Drawable struct {
	ID       int
	Frame    string
	Geometry Geometry
	Color    Color
	Alpha    float32
	// Lifetime of zero keeps the visual until it is deleted.
	Lifetime time.Duration
}

// Kind returns the geometry kind, or -1 when no geometry is set.
func (d Drawable) Kind() Kind {
	if d.Geometry == nil {
		return -1
	}
	return d.Geometry.Kind()
}
