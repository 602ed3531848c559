// Package parse normalizes heterogeneous AI output into a uniform list of
// tool call requests.
//
// Model responses arrive in two shapes. Native structured calls convert
// directly via [FromStructured]. Free-form text goes through [FromText],
// which extracts JSON object blocks — fenced code blocks first, then bare
// balanced {...} spans — and accepts a block as a call only if it parses
// and carries both a "name" and an "args" field. Malformed or irrelevant
// blocks are silently skipped: this is an intentional lenient-parse
// strategy toward an unreliable source, not a strict grammar.
//
// Every accepted call receives a fresh id from [NewRequest], combining the
// tool name, a millisecond timestamp, and random entropy. [ValidateToolCall]
// is the shallow boundary check: tool registered, declared required
// parameters present. Full schema validation is out of scope.
package parse
