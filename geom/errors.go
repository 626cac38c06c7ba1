package geom

import "github.com/pkg/errors"

// Malformed input.
var (
	ErrTruncated        = errors.New("geometry buffer shorter than its declared content")
	ErrInvalidByteOrder = errors.New("invalid byte order marker")
	ErrUnknownType      = errors.New("unsupported geometry type")
	ErrMixedLayout      = errors.New("sub-geometry dimensions differ from parent")
	ErrTooDeep          = errors.New("geometry has too many chained collections")
)

// Structural violations.
var (
	ErrLineTooShort        = errors.New("must have at least two points")
	ErrCircularStringArity = errors.New("circular string must have an odd number of points, at least three")
	ErrRingTooShort        = errors.New("must have at least four points in each ring")
	ErrRingNotClosed       = errors.New("must have closed rings")
	ErrTriangleRings       = errors.New("triangle must have exactly one ring")
	ErrDisallowedMember    = errors.New("sub-geometry type not allowed in collection")
)

// ErrSizeMismatch reports a serializer that wrote more than it predicted.
var ErrSizeMismatch = errors.New("serialized size differs from computed size")

// MaxDepth is the deepest nesting of collections accepted by the codecs.
const MaxDepth = 200
