package config

// Config 配置主体
type Config struct {
	Server                 ServerConfig         `mapstructure:"server"`
	Logger                 LoggerConfig         `mapstructure:"logger"`
	Security               SecurityConfig       `mapstructure:"security"`
	Dynamo                 DynamoConfig         `mapstructure:"dynamo"`
	Redis                  RedisConfig          `mapstructure:"redis"`
	MinIO                  MinIOConfig          `mapstructure:"minio"`
	Kafka                  KafkaConfig          `mapstructure:"kafka"`
	Topics                 TopicsConfig         `mapstructure:"topics"`
	KafkaReactionConsumer  KafkaConsumerBinding `mapstructure:"kafka_reaction_consumer"`
	KafkaPostImageConsumer KafkaConsumerBinding `mapstructure:"kafka_post_image_consumer"`
	KafkaPostReadyConsumer KafkaConsumerBinding `mapstructure:"kafka_post_ready_consumer"`
	Processor              ProcessorConfig      `mapstructure:"processor"`
	Cron                   CronConfig           `mapstructure:"cron"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggerConfig 日志配置，format 为 json 或 text
type LoggerConfig struct {
	Level    string         `mapstructure:"level"`
	Format   string         `mapstructure:"format"`
	Logstash LogstashConfig `mapstructure:"logstash"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type SecurityConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	JWTIssuer string `mapstructure:"jwt_issuer"`
}

// DynamoConfig 键值存储配置
type DynamoConfig struct {
	Region      string `mapstructure:"region"`
	Endpoint    string `mapstructure:"endpoint"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	Table       string `mapstructure:"table"`
	PageSize    int32  `mapstructure:"page_size"`
	Timeout     int    `mapstructure:"timeout"`
	CreateTable bool   `mapstructure:"create_table"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	ImageBucket      string `mapstructure:"image_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
	Producer ProducerConfig `mapstructure:"producer"`
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
	MaxAttempts       int `mapstructure:"max_attempts"`
}

type ProducerConfig struct {
	RetryMax int `mapstructure:"retry_max"`
	Timeout  int `mapstructure:"timeout"`
}

// TopicsConfig 各类事件使用的 topic
type TopicsConfig struct {
	Reaction   string `mapstructure:"reaction"`
	PostImage  string `mapstructure:"post_image"`
	PostReady  string `mapstructure:"post_ready"`
	DeadLetter string `mapstructure:"dead_letter"`
}

type KafkaConsumerBinding struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// ProcessorConfig 图片衍生配置
type ProcessorConfig struct {
	Widths      []int `mapstructure:"widths"`
	JPEGQuality int   `mapstructure:"jpeg_quality"`
}

type CronConfig struct {
	ReconcileSpec string `mapstructure:"reconcile_spec"`
}
