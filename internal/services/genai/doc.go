// Package genai is the provider boundary for scenario generation. It sends
// one schema-constrained chat completion per call and classifies failures
// into ErrUnavailable and ErrEmptyResponse so callers can map them without
// string matching. The client never retries; retry policy belongs to the
// user, not this layer.
package genai
