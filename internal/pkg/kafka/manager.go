package kafka

import (
	"Mundero/internal/api/config"
	"Mundero/internal/pkg/es"
	"Mundero/internal/pkg/mongo"
	"Mundero/internal/pkg/processor"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	engagementConsumer sarama.ConsumerGroup
	engagementHandler  sarama.ConsumerGroupHandler

	postConsumer sarama.ConsumerGroup
	postHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	screener processor.ContentScreener,
	postESRepo es.PostRepo,
	postRepo mongo.PostRepo,
	communityRepo mongo.CommunityRepo,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	engagementConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaEngagementConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	engagementHandler := NewEngagementHandler(postRepo, communityRepo)

	postConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaPostConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	postHandler := NewPostHandler(postRepo, communityRepo, postESRepo, screener)

	return &ConsumerManager{
		engagementConsumer: engagementConsumer,
		engagementHandler:  engagementHandler,
		postConsumer:       postConsumer,
		postHandler:        postHandler,
	}, nil
}

// Start 启动所有消费者，ctx 取消后关闭
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaEngagementConsumer.Topic
		log.Info("Engagement consumer started", "topic", topic)
		for {
			if err := m.engagementConsumer.Consume(ctx, []string{topic}, m.engagementHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		topic := cfg.KafkaPostConsumer.Topic
		log.Info("Post consumer started", "topic", topic)
		for {
			if err := m.postConsumer.Consume(ctx, []string{topic}, m.postHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	err := m.engagementConsumer.Close()
	if err != nil {
		log.Error("Failed to close engagement consumer", "err", err)
	}
	err = m.postConsumer.Close()
	if err != nil {
		log.Error("Failed to close post consumer", "err", err)
	}

	return nil
}
