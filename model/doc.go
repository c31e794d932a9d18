// Package model defines the provider-agnostic chat model interface used by
// prebuilt agent graphs: normalized messages, tool definitions and a
// streaming Generate contract. Concrete adapters live in the openai and
// anthropic subpackages; MockModel serves tests and offline examples.
package model
