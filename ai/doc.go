// Package ai defines the answer-synthesis abstraction and its configuration.
// Concrete implementations live in subpackages: openai for any
// OpenAI-compatible chat API and mock for tests.
package ai
