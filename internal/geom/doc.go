// Package geom provides the vector and rotation primitives used to place
// newly created particles relative to their bonded neighbors.
//
// All functions are pure: they depend only on their arguments and the
// random source passed in. Degenerate input is reported through
// [ErrDegenerateVector] and [ErrIllDefinedAxis] instead of producing NaN
// positions.
//
// # Frames
//
// [OrientationFromPositions] builds a right-handed orthonormal frame from
// three consecutive monomer positions. Two frames (current and ideal)
// give the rotation that carries an ideal offset vector into the current
// filament orientation, see [FrameRotation].
package geom
