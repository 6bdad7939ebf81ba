// Package model holds the domain entities persisted through pkg/store.
//
// Each entity implements types.Creatable and has a companion patch type
// implementing types.Patchable. User converts field by field with the
// typed Object getters; Task goes through the struct codec.
package model
