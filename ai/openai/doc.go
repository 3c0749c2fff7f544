// Package openai implements ai.AnswerSynthesizer against any
// OpenAI-compatible chat API (Ollama, LocalAI, vLLM, the OpenAI service
// itself).
package openai
