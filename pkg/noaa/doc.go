// Package noaa implements queries to NOAA CO-OPS to retrieve tide data and the
// directory of tide prediction stations. Tide data is requested as a time
// series per station (see PredictionQuery). A successful query returns a list
// of predictions with time, height, and whether it is high or low. All times
// are station local.
package noaa
