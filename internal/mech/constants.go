package mech

import "math"

// Default membrane parameters for newly created cells.
const (
	DefaultRadius           = 40.0
	DefaultMass             = 1.0
	DefaultStiffness        = 45.0
	DefaultDampRatio        = 1.0
	DefaultAngularStiffness = 1.0
)

// DefaultMaxTeta is the default joint break angle.
var DefaultMaxTeta = math.Pi / 12.0

// Adhesion policy constants. Below AdhThreshold two touching cells keep a rest
// length equal to their summed corrected radii; above it the rest length is
// interpolated between the max- and min-adhesion multiples.
const (
	AdhThreshold = 0.1
	MaxAdhLength = 0.8
	MinAdhLength = 0.6
)

// VolumeLossAmplification scales the summed spherical-cap losses before the
// corrected radius is recomputed. Empirical: caps from multiple connections
// overlap in their effect on perceived volume. Keep the value as is; the
// connection lifecycle is tuned around it.
const VolumeLossAmplification = 1.3

// ModelConnectionSimilarity is the cosine threshold above which a new
// cell-model contact is folded into an existing connection instead of
// creating a duplicate. Empirical, same caveat as above.
const ModelConnectionSimilarity = 0.8

// Anchor spring parameters for cell-model connections.
const (
	anchorStiffness = 100.0
	anchorDampRatio = 0.9
)
