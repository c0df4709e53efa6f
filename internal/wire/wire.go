package wire

import (
	"Mundero/internal/api"
	"Mundero/internal/api/config"
	"Mundero/internal/api/handler"
	"Mundero/internal/job"
	"Mundero/internal/pkg/cron"
	"Mundero/internal/pkg/es"
	"Mundero/internal/pkg/kafka"
	"Mundero/internal/pkg/linkpreview"
	"Mundero/internal/pkg/mongo"
	"Mundero/internal/pkg/processor"
	"Mundero/internal/repository"
	"Mundero/internal/service"

	"github.com/gin-gonic/gin"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	Producer     kafka.Producer
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongodrv.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	userRolesRepo := repository.NewUserRolesRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	postRepo := mongo.NewPostRepo(mongoDB)
	actionRepo := mongo.NewPostActionRepo(mongoDB)
	communityRepo := mongo.NewCommunityRepo(mongoDB)
	alertRepo := mongo.NewAlertRepo(mongoDB)

	postESRepo := es.NewPostRepo(es.Client)

	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		return nil, err
	}

	screener, err := processor.NewContentScreener(cfg)
	if err != nil {
		return nil, err
	}

	previewer := linkpreview.NewFetcher()

	userService := service.NewUserService(userRepo, roleRepo, userRolesRepo, postESRepo)
	mediaService := service.NewMediaService(userService)
	feedService := service.NewFeedService(postRepo, actionRepo, communityRepo, postESRepo, userRepo, producer, previewer)
	communityService := service.NewCommunityService(communityRepo)
	moderationService := service.NewModerationService(postRepo, actionRepo, postESRepo)
	analyticsService := service.NewAnalyticsService(postRepo)
	behaviorService := service.NewBehaviorService(analyticsService, alertRepo, cfg)

	handlers := &api.HandlersGroup{
		UserHandler:       handler.NewUserHandler(userService, mediaService),
		FeedHandler:       handler.NewFeedHandler(feedService),
		CommunityHandler:  handler.NewCommunityHandler(communityService),
		ModerationHandler: handler.NewModerationHandler(moderationService),
		AnalyticsHandler:  handler.NewAnalyticsHandler(analyticsService, behaviorService),
		AlertHandler:      handler.NewAlertHandler(behaviorService),
		MediaHandler:      handler.NewMediaHandler(mediaService),
		WSHandler:         handler.NewWsHandler(),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, screener, postESRepo, postRepo, communityRepo)
	if err != nil {
		return nil, err
	}

	analyticsJob := job.NewAnalyticsRefreshJob(analyticsService)
	alertJob := job.NewAlertJob(behaviorService)
	cronMgr := cron.NewCronManager(analyticsJob, alertJob)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		Producer:     producer,
		CronMgr:      cronMgr,
	}, nil
}
