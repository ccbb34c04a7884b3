// Package tides narrows a list of tide predictions down to the events a user
// asked for: at or below a height, on chosen weekdays, inside a time of day
// window and optionally during daylight.
package tides
