package wire

import (
	"Propermint/internal/api"
	"Propermint/internal/api/config"
	"Propermint/internal/api/handler"
	"Propermint/internal/job"
	"Propermint/internal/pkg/cron"
	"Propermint/internal/pkg/dynamo"
	"Propermint/internal/pkg/kafka"
	"Propermint/internal/pkg/minio"
	"Propermint/internal/pkg/processor"
	"Propermint/internal/pkg/redis"
	"Propermint/internal/repository"
	"Propermint/internal/service"
	"time"

	"github.com/gin-gonic/gin"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
	Producer     *kafka.Producer
}

func BuildApplication(cfg *config.Config, db dynamo.API, producer *kafka.Producer) (*ApplicationContainer, error) {
	repoOpts := repository.Options{
		Table:    cfg.Dynamo.Table,
		PageSize: cfg.Dynamo.PageSize,
		Timeout:  time.Duration(cfg.Dynamo.Timeout) * time.Second,
	}
	postRepo := repository.NewPostRepo(db, repoOpts)
	reactionRepo := repository.NewReactionRepo(db, repoOpts)

	dirtyMarker := service.NewRedisDirtyMarker()
	reactionProducer := service.NewReactionProducer(producer, dirtyMarker)
	aggregator := service.NewReactionAggregator(postRepo, reactionRepo)
	lifecycle := service.NewPostLifecycleService(postRepo)

	postService := service.NewPostService(postRepo, lifecycle, producer)
	reactionService := service.NewReactionService(postRepo, reactionRepo, reactionProducer)

	blacklist := redis.NewTokenBlacklist()
	handlers := &api.HandlersGroup{
		PostHandler:     handler.NewPostHandler(postService),
		ReactionHandler: handler.NewReactionHandler(reactionService),
		SessionHandler:  handler.NewSessionHandler(blacklist),
		TokenBlacklist:  blacklist,
	}

	router := api.SetupRouter(handlers)

	imageProcessor := processor.NewImageProcessor(minio.NewImageStore(), cfg.Processor.Widths, cfg.Processor.JPEGQuality)
	maxAttempts := cfg.Kafka.Consumer.MaxAttempts
	kafkaMgr, err := kafka.NewConsumerManager(cfg,
		kafka.NewReactionHandler(aggregator, dirtyMarker, maxAttempts),
		kafka.NewPostImageHandler(postRepo, imageProcessor, producer, maxAttempts),
		kafka.NewPostReadyHandler(lifecycle, producer, maxAttempts),
	)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(cfg.Cron.ReconcileSpec, job.NewReactionReconcileJob(aggregator))

	return &ApplicationContainer{
		Router:       router,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
		Producer:     producer,
	}, nil
}
