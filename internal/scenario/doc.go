// Package scenario defines the validated video-production document and the
// decoding/validation stages that turn raw provider output into one.
//
// Decode performs structural decoding only: it enforces the wire shape the
// provider was asked to produce and defaults the optional arrays, but leaves
// every semantic check to Validate. Validate enforces the domain invariants
// the rest of the application depends on (contiguous scene ordinals,
// scene/timeline alignment, time-axis consistency, the closed dialogue
// structure enumeration, balanced voice tags) and rejects documents that
// drift too far from the requested total duration.
//
// Documents are immutable value records: a Document is built once by a
// successful Decode+Validate pass and never mutated afterwards. Keep the wire
// field names in sync with the response schema in the prompt package; the
// schema is the contract the provider is held to.
package scenario
