// Package generation provides the content generation pipeline: building
// model prompts, the provider boundary to the external language model, and
// the parse-then-validate step that turns raw model output into a typed
// content artifact. It abstracts the details of the LLM integration so the
// application can generate marketing copy without coupling to a specific
// external service.
package generation
