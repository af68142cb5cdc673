package scoring

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"edstudy/config"
	"edstudy/internal/model/assessment"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

//go:embed prompt/evaluator.yaml
var evaluatorYAML []byte

type EvaluatorPrompt struct {
	SystemPrompt string `yaml:"system_prompt"`
	UserTemplate string `yaml:"user_template"`
}

// openaiAPI go-openai 客户端中用到的部分
type openaiAPI interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// RemoteProvider 先转写再让大模型按 CEFR 评分
type RemoteProvider struct {
	client          openaiAPI
	model           string
	transcribeModel string
	now             func() time.Time
	log             *logrus.Entry
}

func NewRemoteProvider(cfg config.ScoringConfig, log *logrus.Entry) *RemoteProvider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return newRemoteProvider(openai.NewClientWithConfig(clientConfig), cfg, log)
}

func newRemoteProvider(client openaiAPI, cfg config.ScoringConfig, log *logrus.Entry) *RemoteProvider {
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	transcribeModel := cfg.TranscribeModel
	if transcribeModel == "" {
		transcribeModel = openai.Whisper1
	}
	return &RemoteProvider{
		client:          client,
		model:           model,
		transcribeModel: transcribeModel,
		now:             time.Now,
		log:             log,
	}
}

func (p *RemoteProvider) Name() string { return ModeRemote }

func (p *RemoteProvider) Score(ctx context.Context, clip Clip) (assessment.AnalysisResult, error) {
	var prompt EvaluatorPrompt
	if err := yaml.Unmarshal(evaluatorYAML, &prompt); err != nil {
		return assessment.AnalysisResult{}, fmt.Errorf("error parsing prompt yaml: %w", err)
	}

	filename := clip.Filename
	if filename == "" {
		filename = "recording.webm"
	}
	transcript, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.transcribeModel,
		FilePath: filename,
		Reader:   bytes.NewReader(clip.Data),
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return assessment.AnalysisResult{}, fmt.Errorf("%w: transcription: %w", ErrProviderUnavailable, err)
	}

	duration := clip.DurationSec
	if transcript.Duration > 0 {
		duration = transcript.Duration
	}
	text := strings.TrimSpace(transcript.Text)
	p.log.WithFields(logrus.Fields{
		"language": transcript.Language,
		"duration": duration,
		"chars":    len(text),
	}).Debug("clip transcribed")

	if text == "" {
		return finalize(noEnglish(transcript.Language), p.now())
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(prompt.UserTemplate, transcript.Language, duration, text),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	})
	if err != nil {
		return assessment.AnalysisResult{}, fmt.Errorf("%w: chat completion: %w", ErrProviderUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return assessment.AnalysisResult{}, fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}

	return parseEvaluation(resp.Choices[0].Message.Content, p.now())
}

// parseEvaluation 解析模型返回的 JSON，允许外层包裹 ``` 代码块
func parseEvaluation(content string, now time.Time) (assessment.AnalysisResult, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var result assessment.AnalysisResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &result); err != nil {
		return assessment.AnalysisResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return finalize(result, now)
}
