package processor

import (
	"Mundero/internal/api/config"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/sync/semaphore"
)

// 同时发往模型的审查请求上限
const maxConcurrentScreens = 8

// ContentScreener 帖子内容安全审查
type ContentScreener interface {
	Screen(ctx context.Context, content string) (bool, error)
}

type contentScreenerImpl struct {
	client     llms.Model
	safePrompt string
	model      string
	timeout    time.Duration
	enabled    bool
	sem        *semaphore.Weighted
}

func NewContentScreener(cfg *config.Config) (ContentScreener, error) {
	llmCfg := cfg.LLM

	if !llmCfg.Enabled {
		log.Info("content screener disabled, all content passes")
		return &contentScreenerImpl{enabled: false}, nil
	}

	client, err := openai.New(
		openai.WithModel(llmCfg.Model),
		openai.WithToken(llmCfg.ApiKey),
		openai.WithBaseURL(llmCfg.URL),
	)
	if err != nil {
		log.Error("内容审查模型初始化失败", "err", err)
		return nil, err
	}

	return &contentScreenerImpl{
		client:     client,
		safePrompt: llmCfg.SafePrompt,
		model:      llmCfg.Model,
		timeout:    time.Duration(llmCfg.TimeoutSecs) * time.Second,
		enabled:    true,
		sem:        semaphore.NewWeighted(maxConcurrentScreens),
	}, nil
}

// Screen 返回内容是否安全。审查关闭或内容为空时一律放行。
func (s *contentScreenerImpl) Screen(ctx context.Context, content string) (bool, error) {
	if !s.enabled || content == "" {
		return true, nil
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer s.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(s.safePrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(content),
			},
		},
	}

	resp, err := s.client.GenerateContent(ctx, messages,
		llms.WithModel(s.model),
		llms.WithTemperature(0.1),
	)
	if err != nil {
		log.Error("内容审查-AI大模型请求失败", "err", err)
		return false, err
	}

	if len(resp.Choices) == 0 {
		return false, errors.New("内容审查-AI大模型返回数据为空")
	}

	verdict := strings.ToUpper(strings.TrimSpace(resp.Choices[0].Content))
	safe := !strings.HasPrefix(verdict, "UNSAFE")

	log.InfoContext(ctx, "content screened", "safe", safe)
	return safe, nil
}
