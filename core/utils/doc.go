// Package utils holds small helpers shared by the feature packages, mainly the
// conversion of loosely typed values (decoded JSON, database columns) into identity
// strings.
package utils
