// Package topology holds the bonded-particle graph that reaction functions
// read and rewrite.
//
// A [View] is the read-only surface handed to rate and reaction functions.
// Edits are never applied directly: a reaction function fills a [Recipe]
// and the driver applies it atomically with [Graph.Apply]. The query
// helpers in this package (FindFirst, NeighborOf, Chain, ...) report
// absence through their boolean result rather than an error.
//
// Particle type names carry state. The part after '#' is an underscore
// separated list of flags followed by polymer numbers, e.g.
// "actin#pointed_ATP_2" or "tubulinA#GTP_bent_3_1". See [ParticleType].
package topology
