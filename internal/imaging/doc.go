// Package imaging validates uploaded avatar images and normalizes them to a
// fixed-size PNG.
package imaging
