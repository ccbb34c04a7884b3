// Package zipcode converts between US zip codes and the coordinates of their
// Census Gazetteer centroids.
package zipcode
