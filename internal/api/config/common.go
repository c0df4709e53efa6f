package config

// Config 配置主体
type Config struct {
	Server                  ServerConfig            `mapstructure:"server"`
	DB                      DBConfig                `mapstructure:"database"`
	Redis                   RedisConfig             `mapstructure:"redis"`
	Mongo                   MongoConfig             `mapstructure:"mongo"`
	MinIO                   MinIOConfig             `mapstructure:"minio"`
	Elastic                 ElasticConfig           `mapstructure:"elastic"`
	LLM                     LLMConfig               `mapstructure:"llm"`
	Logstash                LogstashConfig          `mapstructure:"logstash"`
	Alert                   AlertConfig             `mapstructure:"alert"`
	Kafka                   KafkaConfig             `mapstructure:"kafka"`
	KafkaEngagementConsumer KafkaEngagementConsumer `mapstructure:"kafka_engagement_consumer"`
	KafkaPostConsumer       KafkaPostConsumer       `mapstructure:"kafka_post_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MongoConfig 文档库配置
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	TempBucket       string `mapstructure:"temp_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	UsePublicLink    bool   `mapstructure:"use_public_link"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	PostIndex string `mapstructure:"post_index"`
}

// LLMConfig 内容安全审查模型配置
type LLMConfig struct {
	URL         string `mapstructure:"url"`
	Model       string `mapstructure:"model"`
	ApiKey      string `mapstructure:"api_key"`
	SafePrompt  string `mapstructure:"safe_prompt"`
	Enabled     bool   `mapstructure:"enabled"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// LogstashConfig 远程日志配置
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// AlertConfig 预警配置
type AlertConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaEngagementConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type KafkaPostConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
