// Package prompt renders a canonical brief into the full provider request:
// the user-facing instruction, the system rules, the response JSON schema,
// and the sampling parameters. Rendering is deterministic; two equal briefs
// always produce byte-identical requests.
package prompt
