// Package types defines the error taxonomy, the generic record and identifier
// types, the record conversion contracts, and the filter description shared
// by the thingstore Store and its backends.
package types
