package geom

import "fmt"

// Type is the geometry kind. The values are the type tags of the serialized
// database format.
type Type uint32

const (
	TypePoint Type = iota + 1
	TypeLineString
	TypePolygon
	TypeMultiPoint
	TypeMultiLineString
	TypeMultiPolygon
	TypeGeometryCollection
	TypeCircularString
	TypeCompoundCurve
	TypeCurvePolygon
	TypeMultiCurve
	TypeMultiSurface
	TypePolyhedralSurface
	TypeTriangle
	TypeTIN
)

// NumTypes is one past the largest Type value.
const NumTypes = 16

// Base WKB type ids. 13 (Curve) and 14 (Surface) are abstract and never
// appear in valid WKB.
const (
	wkbPoint              = 1
	wkbLineString         = 2
	wkbPolygon            = 3
	wkbMultiPoint         = 4
	wkbMultiLineString    = 5
	wkbMultiPolygon       = 6
	wkbGeometryCollection = 7
	wkbCircularString     = 8
	wkbCompoundCurve      = 9
	wkbCurvePolygon       = 10
	wkbMultiCurve         = 11
	wkbMultiSurface       = 12
	wkbPolyhedralSurface  = 15
	wkbTIN                = 16
	wkbTriangle           = 17
)

var typeNames = [NumTypes]string{
	TypePoint:              "POINT",
	TypeLineString:         "LINESTRING",
	TypePolygon:            "POLYGON",
	TypeMultiPoint:         "MULTIPOINT",
	TypeMultiLineString:    "MULTILINESTRING",
	TypeMultiPolygon:       "MULTIPOLYGON",
	TypeGeometryCollection: "GEOMETRYCOLLECTION",
	TypeCircularString:     "CIRCULARSTRING",
	TypeCompoundCurve:      "COMPOUNDCURVE",
	TypeCurvePolygon:       "CURVEPOLYGON",
	TypeMultiCurve:         "MULTICURVE",
	TypeMultiSurface:       "MULTISURFACE",
	TypePolyhedralSurface:  "POLYHEDRALSURFACE",
	TypeTriangle:           "TRIANGLE",
	TypeTIN:                "TIN",
}

var toWKB = [NumTypes]uint32{
	TypePoint:              wkbPoint,
	TypeLineString:         wkbLineString,
	TypePolygon:            wkbPolygon,
	TypeMultiPoint:         wkbMultiPoint,
	TypeMultiLineString:    wkbMultiLineString,
	TypeMultiPolygon:       wkbMultiPolygon,
	TypeGeometryCollection: wkbGeometryCollection,
	TypeCircularString:     wkbCircularString,
	TypeCompoundCurve:      wkbCompoundCurve,
	TypeCurvePolygon:       wkbCurvePolygon,
	TypeMultiCurve:         wkbMultiCurve,
	TypeMultiSurface:       wkbMultiSurface,
	TypePolyhedralSurface:  wkbPolyhedralSurface,
	TypeTriangle:           wkbTriangle,
	TypeTIN:                wkbTIN,
}

var fromWKB map[uint32]Type

func init() {
	fromWKB = make(map[uint32]Type, NumTypes)
	for t := TypePoint; t <= TypeTIN; t++ {
		fromWKB[toWKB[t]] = t
	}
}

// Valid reports whether t is one of the 15 known kinds.
func (t Type) Valid() bool {
	return t >= TypePoint && t <= TypeTIN
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("UNKNOWN(%d)", uint32(t))
	}
	return typeNames[t]
}

// WKBCode returns the base WKB type id, without dimension offsets or flags.
func (t Type) WKBCode() uint32 {
	if !t.Valid() {
		return 0
	}
	return toWKB[t]
}

// Internal returns the type tag stored in the serialized format.
func (t Type) Internal() uint32 {
	return uint32(t)
}

// TypeFromWKB maps a base WKB type id (1-17) to its Type.
func TypeFromWKB(code uint32) (Type, bool) {
	t, ok := fromWKB[code]
	return t, ok
}

// TypeFromInternal maps a serialized type tag to its Type.
func TypeFromInternal(tag uint32) (Type, bool) {
	t := Type(tag)
	return t, t.Valid()
}

// IsCollection reports whether geometries of this kind hold child
// geometries instead of coordinates.
func (t Type) IsCollection() bool {
	switch t {
	case TypeMultiPoint, TypeMultiLineString, TypeMultiPolygon, TypeGeometryCollection,
		TypeCompoundCurve, TypeCurvePolygon, TypeMultiCurve, TypeMultiSurface,
		TypePolyhedralSurface, TypeTIN:
		return true
	}
	return false
}

// AllowsMember reports whether a collection of kind container may hold a
// child of kind member.
func AllowsMember(container, member Type) bool {
	switch container {
	case TypeGeometryCollection:
		return true
	case TypeMultiPoint:
		return member == TypePoint
	case TypeMultiLineString:
		return member == TypeLineString
	case TypeMultiPolygon:
		return member == TypePolygon
	case TypeCompoundCurve:
		return member == TypeLineString || member == TypeCircularString
	case TypeCurvePolygon, TypeMultiCurve:
		return member == TypeLineString || member == TypeCircularString || member == TypeCompoundCurve
	case TypeMultiSurface:
		return member == TypePolygon || member == TypeCurvePolygon
	case TypePolyhedralSurface:
		return member == TypePolygon
	case TypeTIN:
		return member == TypeTriangle
	}
	return false
}

// Class ids of the geometry user defined types in the database catalog.
const (
	classPackage = 14 << 24

	ClassGeometry          int32 = classPackage | 113
	ClassPoint             int32 = classPackage | 114
	ClassLine              int32 = classPackage | 115
	ClassPolygon           int32 = classPackage | 116
	ClassMultiPoint        int32 = classPackage | 117
	ClassMultiLine         int32 = classPackage | 118
	ClassMultiPolygon      int32 = classPackage | 119
	ClassCollection        int32 = classPackage | 120
	ClassCircularString    int32 = classPackage | 121
	ClassCompoundCurve     int32 = classPackage | 122
	ClassCurvePolygon      int32 = classPackage | 123
	ClassMultiCurve        int32 = classPackage | 124
	ClassMultiSurface      int32 = classPackage | 125
	ClassPolyhedralSurface int32 = classPackage | 126
	ClassTriangle          int32 = classPackage | 127
	ClassTIN               int32 = classPackage | 128
	ClassGeography         int32 = classPackage | 129
)

var classTypes = map[int32]Type{
	ClassPoint:             TypePoint,
	ClassLine:              TypeLineString,
	ClassPolygon:           TypePolygon,
	ClassMultiPoint:        TypeMultiPoint,
	ClassMultiLine:         TypeMultiLineString,
	ClassMultiPolygon:      TypeMultiPolygon,
	ClassCollection:        TypeGeometryCollection,
	ClassCircularString:    TypeCircularString,
	ClassCompoundCurve:     TypeCompoundCurve,
	ClassCurvePolygon:      TypeCurvePolygon,
	ClassMultiCurve:        TypeMultiCurve,
	ClassMultiSurface:      TypeMultiSurface,
	ClassPolyhedralSurface: TypePolyhedralSurface,
	ClassTriangle:          TypeTriangle,
	ClassTIN:               TypeTIN,
}

// TypeFromClass maps a column class id to a fixed geometry kind. The generic
// GEOMETRY and GEOGRAPHY classes and unknown ids return false.
func TypeFromClass(classID int32) (Type, bool) {
	t, ok := classTypes[classID]
	return t, ok
}

// ClassTypeName returns the display name for a column class id.
func ClassTypeName(classID int32) string {
	switch classID {
	case ClassGeometry:
		return "GEOMETRY"
	case ClassGeography:
		return "GEOGRAPHY"
	}
	if t, ok := classTypes[classID]; ok {
		return t.String()
	}
	return "UNKNOWN"
}

// ColumnAccepts reports whether a geometry of type t can be stored in a
// column of the given class. The generic classes accept every type.
func ColumnAccepts(classID int32, t Type) bool {
	fixed, ok := TypeFromClass(classID)
	return !ok || fixed == t
}
