package kafka

import (
	"Mundero/internal/api/config"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// Producer 事件发布入口
type Producer interface {
	PublishEngagement(event *EngagementEvent) error
	PublishPost(event *PostEvent) error
	Close() error
}

type producerImpl struct {
	producer        sarama.SyncProducer
	engagementTopic string
	postTopic       string
}

func NewProducer(cfg *config.Config) (Producer, error) {
	p, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newProducerConfig(cfg.Kafka))
	if err != nil {
		return nil, err
	}
	return &producerImpl{
		producer:        p,
		engagementTopic: cfg.KafkaEngagementConsumer.Topic,
		postTopic:       cfg.KafkaPostConsumer.Topic,
	}, nil
}

// PublishEngagement 以 post_id 作为分区键，保证同一帖子的事件有序
func (s *producerImpl) PublishEngagement(event *EngagementEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, _, err = s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.engagementTopic,
		Key:   sarama.StringEncoder(event.PostID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		log.Error("publish engagement event failed", "postID", event.PostID, "action", event.Action, "err", err)
		return err
	}
	return nil
}

func (s *producerImpl) PublishPost(event *PostEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, _, err = s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.postTopic,
		Key:   sarama.StringEncoder(event.PostID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		log.Error("publish post event failed", "postID", event.PostID, "type", event.Type, "err", err)
		return err
	}
	return nil
}

func (s *producerImpl) Close() error {
	return s.producer.Close()
}
