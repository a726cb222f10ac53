// Package model defines the provider-agnostic capability abstraction used by
// process steps to generate text.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Normalize structured output (JSON Schema constrained responses) across
//     providers (ResponseFormat, SchemaFor, DecodeStructured)
//   - Classify provider failures so callers can distinguish transport, auth,
//     rate limit and schema violations (Error, ErrorKind)
//   - Facilitate lightweight scripting for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so the process engine and steps remain decoupled from vendor SDKs.
package model
