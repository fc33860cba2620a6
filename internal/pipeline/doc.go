// Package pipeline runs one scenario generation end to end: assemble the
// brief, build the provider request, invoke the provider, decode, validate.
// Stages never recover each other's failures; every failure surfaces as an
// *Error carrying the machine-readable kind and the run's correlation id.
// The generator holds no mutable state, so concurrent runs share nothing.
package pipeline
