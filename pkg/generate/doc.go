// Package generate produces raw expansion payloads for a focus node.
//
// A [Generator] turns an expansion [Request] into the raw bytes of a
// generator response. The response is untrusted: callers decode it with
// [DecodePayload] and hand the result to the sanitizer, which owns all
// structural guarantees. This package is only responsible for transport,
// prompting and caching.
//
// # Backends
//
//   - [OpenAIGenerator]: chat-completion backend with JSON response mode
//   - [StubGenerator]: deterministic offline backend for demos and tests
//   - [CachedGenerator]: caching decorator around any backend
//
// # Failure model
//
// Transport failures (network errors, malformed JSON, rate limits) are
// returned as errors and leave the caller's graph untouched. A response that
// decodes to valid JSON always succeeds here, however useless its content;
// deciding what of it survives is the sanitizer's job.
package generate
