// Package geom contains the geometry model shared by the WKB and the
// serialized database codecs.
//
// Geometries form a tree: the coordinate carrying kinds (Point, LineString,
// CircularString, Polygon, Triangle) are leaves and Collection covers the ten
// container kinds. Every geometry of a tree uses the same Layout.
package geom

// Geometry is implemented by *Point, *LineString, *CircularString, *Polygon,
// *Triangle and *Collection.
type Geometry interface {
	Type() Type
	Layout() Layout
	Empty() bool
}

// Point holds zero (empty point) or one coordinate tuple.
type Point struct {
	Coords *PointArray
}

// NewPoint returns a point with the given ordinates, or an empty point when
// coord is empty.
func NewPoint(layout Layout, coord ...float64) *Point {
	return &Point{Coords: NewPointArrayFromFlat(layout, coord)}
}

func (p *Point) Type() Type     { return TypePoint }
func (p *Point) Layout() Layout { return p.Coords.Layout }
func (p *Point) Empty() bool    { return p.Coords.NumPoints() == 0 }

type LineString struct {
	Coords *PointArray
}

func NewLineString(layout Layout, flat ...float64) *LineString {
	return &LineString{Coords: NewPointArrayFromFlat(layout, flat)}
}

func (l *LineString) Type() Type     { return TypeLineString }
func (l *LineString) Layout() Layout { return l.Coords.Layout }
func (l *LineString) Empty() bool    { return l.Coords.NumPoints() == 0 }

// CircularString is a chain of arcs, three points per arc with adjacent arcs
// sharing an end point.
type CircularString struct {
	Coords *PointArray
}

func NewCircularString(layout Layout, flat ...float64) *CircularString {
	return &CircularString{Coords: NewPointArrayFromFlat(layout, flat)}
}

func (c *CircularString) Type() Type     { return TypeCircularString }
func (c *CircularString) Layout() Layout { return c.Coords.Layout }
func (c *CircularString) Empty() bool    { return c.Coords.NumPoints() == 0 }

type Polygon struct {
	layout Layout
	Rings  []*PointArray
}

func NewPolygon(layout Layout, rings ...*PointArray) *Polygon {
	return &Polygon{layout: layout, Rings: rings}
}

func (p *Polygon) Type() Type     { return TypePolygon }
func (p *Polygon) Layout() Layout { return p.layout }
func (p *Polygon) Empty() bool    { return len(p.Rings) == 0 }

// Triangle is a polygon with exactly one ring. An empty triangle has a nil
// Ring. A present ring without points is not empty and fails validation.
type Triangle struct {
	layout Layout
	Ring   *PointArray
}

func NewTriangle(layout Layout, ring *PointArray) *Triangle {
	return &Triangle{layout: layout, Ring: ring}
}

func (t *Triangle) Type() Type     { return TypeTriangle }
func (t *Triangle) Layout() Layout { return t.layout }
func (t *Triangle) Empty() bool    { return t.Ring == nil }

// Collection is any geometry made of child geometries: the multi kinds,
// GeometryCollection, CompoundCurve, CurvePolygon, MultiCurve, MultiSurface,
// PolyhedralSurface and TIN.
type Collection struct {
	Kind   Type
	layout Layout
	Geoms  []Geometry
}

func NewCollection(kind Type, layout Layout, geoms ...Geometry) *Collection {
	return &Collection{Kind: kind, layout: layout, Geoms: geoms}
}

func (c *Collection) Type() Type     { return c.Kind }
func (c *Collection) Layout() Layout { return c.layout }
func (c *Collection) Empty() bool    { return len(c.Geoms) == 0 }

func (c *Collection) Push(g Geometry) {
	c.Geoms = append(c.Geoms, g)
}
