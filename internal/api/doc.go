// Package api exposes the generation pipeline and the history store over
// HTTP. One generation runs at a time per server; concurrent generate
// requests fail fast with 409 instead of queueing.
package api
