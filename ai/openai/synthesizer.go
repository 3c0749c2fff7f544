// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/medquery/ai"
	"github.com/poiesic/medquery/core"
)

// AnswerSynthesizer implements ai.AnswerSynthesizer using OpenAI-compatible
// chat APIs.
type AnswerSynthesizer struct {
	client      llms.Model
	maxArticles int
	logger      *slog.Logger
}

// newAnswerSynthesizer is an internal constructor that returns the concrete type.
func newAnswerSynthesizer(config *ai.Config) (*AnswerSynthesizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &AnswerSynthesizer{
		client:      client,
		maxArticles: config.MaxContextArticles,
		logger:      slog.Default().With("component", "openai-synthesizer"),
	}, nil
}

// NewAnswerSynthesizer creates an answer synthesizer using the provided
// configuration.
//
// Returns ai.AnswerSynthesizer interface to enforce abstraction.
func NewAnswerSynthesizer(config *ai.Config) (ai.AnswerSynthesizer, error) {
	return newAnswerSynthesizer(config)
}

// SynthesizeAnswer composes a cited plain-language answer from the given
// articles. Only the first MaxContextArticles articles reach the prompt.
func (s *AnswerSynthesizer) SynthesizeAnswer(ctx context.Context, question string, articles []*core.Article) (string, error) {
	question = scrubString(question)

	if len(articles) > s.maxArticles {
		articles = articles[:s.maxArticles]
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildUserPrompt(question, articles)),
			},
		},
	}

	response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		s.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		s.logger.Debug("no choices returned from model")
		return "", nil
	}

	answer := strings.TrimSpace(response.Choices[0].Content)
	s.logger.Debug("answer synthesized", "articles", len(articles), "chars", len(answer))
	return answer, nil
}
