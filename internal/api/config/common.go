package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Cfg 全局可访问的配置实例
var Cfg = &Config{}

// LoadConfig 从文件加载配置并填充到 Cfg，环境变量 APP_xxx 可覆盖文件中的值
func LoadConfig() error {
	if _, err := os.Stat(".env"); err == nil {
		if err = gotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("security.jwt_issuer", "Propermint")
	v.SetDefault("dynamo.region", "us-east-1")
	v.SetDefault("dynamo.table", "channels")
	v.SetDefault("dynamo.timeout", 5)
	v.SetDefault("kafka.consumer.session_timeout", 10)
	v.SetDefault("kafka.consumer.heartbeat_interval", 3)
	v.SetDefault("kafka.consumer.rebalance_timeout", 60)
	v.SetDefault("kafka.consumer.max_processing_time", 30)
	v.SetDefault("kafka.consumer.max_attempts", 5)
	v.SetDefault("kafka.producer.retry_max", 3)
	v.SetDefault("kafka.producer.timeout", 5)
	v.SetDefault("topics.reaction", "reaction-events")
	v.SetDefault("topics.post_image", "post-image")
	v.SetDefault("topics.post_ready", "post-ready")
	v.SetDefault("topics.dead_letter", "post-dead-letter")
	v.SetDefault("kafka_reaction_consumer.topic", "reaction-events")
	v.SetDefault("kafka_reaction_consumer.group_id", "reaction-aggregator")
	v.SetDefault("kafka_post_image_consumer.topic", "post-image")
	v.SetDefault("kafka_post_image_consumer.group_id", "post-image-processor")
	v.SetDefault("kafka_post_ready_consumer.topic", "post-ready")
	v.SetDefault("kafka_post_ready_consumer.group_id", "post-lifecycle")
	v.SetDefault("processor.widths", []int{240, 320, 480, 640, 750, 1080})
	v.SetDefault("processor.jpeg_quality", 85)
	v.SetDefault("cron.reconcile_spec", "0 * * * * *")
}
