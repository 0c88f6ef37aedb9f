package summarize

import (
	"context"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/codex-k8s/toolgate-mcp-server/internal/config"
)

// NewModel creates the OpenAI-compatible chat model used for summaries.
// It returns a nil model when no API key is configured, which makes the worker fall back to raw text.
func NewModel(ctx context.Context, cfg config.OpenAIConfig, modelName string) (model.BaseChatModel, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, nil
	}
	chatCfg := &openai.ChatModelConfig{
		Model:  modelName,
		APIKey: apiKey,
	}
	if cfg.BaseURL != "" {
		chatCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewChatModel(ctx, chatCfg)
}
