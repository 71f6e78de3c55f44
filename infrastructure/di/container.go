// Package di wires the application together. Wiring is explicit rather
// than generated: the graph is small enough that reading it top to
// bottom beats regenerating it.
package di

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"exercisely-backend/application/ports"
	"exercisely-backend/application/services"
	"exercisely-backend/infrastructure/ai"
	"exercisely-backend/infrastructure/config"
	"exercisely-backend/interfaces/http/rest"
	"exercisely-backend/pkg/observability"
)

// Container holds the fully wired application.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics

	Users     *services.UserService
	Exercises *services.ExerciseService
	Likes     *services.LikeService
	Comments  *services.CommentService
	Lists     *services.ListService
	Followers *services.FollowerService

	Router http.Handler
}

// NewContainer builds the application from configuration. Construction
// is fail-fast: any provider error aborts startup.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	dynamoClient := ProvideDynamoDBClient(awsCfg)
	eventBridgeClient := ProvideEventBridgeClient(awsCfg)
	cloudWatchClient := ProvideCloudWatchClient(awsCfg)
	cognitoClient := ProvideCognitoClient(awsCfg)
	s3Client := ProvideS3Client(awsCfg)

	metrics := ProvideMetrics(cloudWatchClient, cfg, logger)

	userRepo := ProvideUserRepository(dynamoClient, cfg, logger)
	exerciseRepo := ProvideExerciseRepository(dynamoClient, cfg, logger)
	commentRepo := ProvideCommentRepository(dynamoClient, cfg, logger)
	likeRepo := ProvideLikeRepository(dynamoClient, cfg, logger)
	listRepo := ProvideListRepository(dynamoClient, cfg, logger)
	followerRepo := ProvideFollowerRepository(dynamoClient, cfg, logger)

	catalogCache := ProvideCatalogCache(logger)
	identityProvider := ProvideIdentityProvider(cognitoClient, cfg, logger)
	mediaStorage := ProvideMediaStorage(s3Client, cfg, logger)
	publisher := ProvideEventPublisher(eventBridgeClient, cfg, logger)

	var extractor ports.FilterExtractor
	if cfg.EnableAI {
		extractor = ProvideFilterExtractor(ProvideBedrockClient(awsCfg), cfg, logger)
	} else {
		extractor = ai.NewDisabledFilterExtractor()
	}

	userService := services.NewUserService(userRepo, identityProvider, mediaStorage, publisher, logger)
	exerciseService := services.NewExerciseService(exerciseRepo, catalogCache, likeRepo, extractor, publisher, metrics, logger)
	likeService := services.NewLikeService(likeRepo, exerciseService, publisher, metrics, logger)
	commentService := services.NewCommentService(commentRepo, userRepo, exerciseService, publisher, metrics, logger)
	listService := services.NewListService(listRepo, userRepo, followerRepo, likeRepo, exerciseService, publisher, logger)
	followerService := services.NewFollowerService(followerRepo, userRepo, listRepo, publisher, metrics, logger)

	validator, err := ProvideJWTValidator(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating JWT validator: %w", err)
	}

	ipLimiter, userLimiter := ProvideRateLimiters(dynamoClient, cfg)

	router := rest.NewRouter(rest.Deps{
		Users:       userService,
		Exercises:   exerciseService,
		Likes:       likeService,
		Comments:    commentService,
		Lists:       listService,
		Followers:   followerService,
		Validator:   validator,
		IPLimiter:   ipLimiter,
		UserLimiter: userLimiter,
		Tracer:      ProvideTracer(cfg),
		EnableCORS:  cfg.EnableCORS,
		Logger:      logger,
	})

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Metrics:   metrics,
		Users:     userService,
		Exercises: exerciseService,
		Likes:     likeService,
		Comments:  commentService,
		Lists:     listService,
		Followers: followerService,
		Router:    router.Setup(),
	}, nil
}

// Close flushes buffered log entries.
func (c *Container) Close() {
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
