// Package geo holds small in-memory tables of labeled coordinates and answers
// nearest-neighbour queries against them. Distance is the planar squared
// distance in (latitude, longitude) degrees, which is good enough to match
// points that are already regionally close. It is not a geodesic distance.
package geo
