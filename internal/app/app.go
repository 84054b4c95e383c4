// Package app wires configuration into a ready chat handler. It is shared by
// the Lambda entrypoint and the local server.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"

	"consult-agent/handler"
	"consult-agent/internal/config"
	"consult-agent/internal/credentials"
	"consult-agent/internal/integrations/groq"
	"consult-agent/internal/integrations/minimax"
	"consult-agent/internal/integrations/openai"
	"consult-agent/internal/integrations/paramstore"
	"consult-agent/internal/knowledge"
	"consult-agent/internal/repository"
	"consult-agent/internal/usecase"
)

// NewHandler builds the system prompt once and returns the handler serving it.
func NewHandler(ctx context.Context, cfg *config.Config, log *zap.Logger) (*handler.Handler, error) {
	var awsCfg *aws.Config
	loadAWS := func() (aws.Config, error) {
		if awsCfg != nil {
			return *awsCfg, nil
		}
		c, err := loadDefaultAWSConfig(ctx)
		if err != nil {
			return aws.Config{}, fmt.Errorf("app: load AWS config: %w", err)
		}
		awsCfg = &c
		return c, nil
	}

	var knowledgeText, knowledgeName string
	src, err := knowledgeSource(cfg, loadAWS)
	if err != nil {
		log.Error("knowledge source unavailable, continuing without knowledge", zap.Error(err))
		knowledgeName = "none"
	} else {
		knowledgeText = knowledge.LoadFormatted(ctx, src, log)
		knowledgeName = src.String()
	}
	systemPrompt := usecase.BuildSystemPrompt(knowledgeText)

	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	var credOpts []credentials.Option
	if cfg.APIKeyParameter != "" {
		c, err := loadAWS()
		if err != nil {
			return nil, err
		}
		ps, err := paramstore.New(awsssm.NewFromConfig(c))
		if err != nil {
			return nil, err
		}
		credOpts = append(credOpts, credentials.WithParameter(ps, cfg.APIKeyParameter))
	}
	creds, err := credentials.New(cfg.APIKeyName(), cfg.APIKey(), credOpts...)
	if err != nil {
		return nil, err
	}

	svcOpts := []usecase.Option{usecase.WithLogger(log)}
	if cfg.ExchangeTable != "" {
		c, err := loadAWS()
		if err != nil {
			return nil, err
		}
		exchanges, err := repository.New(awsdynamodb.NewFromConfig(c), cfg.ExchangeTable)
		if err != nil {
			return nil, err
		}
		svcOpts = append(svcOpts, usecase.WithExchangeRecorder(exchanges))
	}

	svc, err := usecase.NewChatService(provider, creds, systemPrompt, svcOpts...)
	if err != nil {
		return nil, err
	}

	log.Info("chat handler ready",
		zap.String("provider", provider.Name()),
		zap.String("knowledge", knowledgeName),
		zap.Bool("exchangeLog", cfg.ExchangeTable != ""),
	)
	return handler.NewHandler(svc, handler.WithLogger(log))
}

var loadDefaultAWSConfig = func(ctx context.Context) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx)
}

// NewProvider returns the completion adapter selected by CHAT_PROVIDER.
func NewProvider(cfg *config.Config) (usecase.CompletionProvider, error) {
	httpClient := &http.Client{Timeout: cfg.VendorTimeout}
	switch cfg.Provider {
	case config.ProviderGroq:
		return groq.NewClient(groq.WithBaseURL(cfg.VendorBaseURL), groq.WithHTTPClient(httpClient)), nil
	case config.ProviderMiniMax:
		return minimax.NewClient(minimax.WithBaseURL(cfg.VendorBaseURL), minimax.WithHTTPClient(httpClient)), nil
	case config.ProviderOpenAI:
		return openai.NewClient(openai.WithBaseURL(cfg.VendorBaseURL), openai.WithHTTPClient(httpClient)), nil
	default:
		return nil, fmt.Errorf("app: unsupported provider %q", cfg.Provider)
	}
}

func knowledgeSource(cfg *config.Config, loadAWS func() (aws.Config, error)) (knowledge.Source, error) {
	if !cfg.KnowledgeFromS3() {
		return knowledge.FileSource{Path: cfg.KnowledgePath}, nil
	}
	c, err := loadAWS()
	if err != nil {
		return nil, err
	}
	return knowledge.NewS3Source(awss3.NewFromConfig(c), cfg.KnowledgeS3Bucket, cfg.KnowledgeS3Key)
}
