package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsbedrock "github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awscognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"exercisely-backend/application/ports"
	"exercisely-backend/infrastructure/ai"
	"exercisely-backend/infrastructure/config"
	"exercisely-backend/infrastructure/identity"
	"exercisely-backend/infrastructure/messaging/eventbridge"
	"exercisely-backend/infrastructure/persistence/cache"
	"exercisely-backend/infrastructure/persistence/dynamodb"
	"exercisely-backend/infrastructure/storage"
	"exercisely-backend/pkg/auth"
	"exercisely-backend/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideCognitoClient creates a Cognito identity provider client
func ProvideCognitoClient(awsCfg aws.Config) *awscognito.Client {
	return awscognito.NewFromConfig(awsCfg)
}

// ProvideS3Client creates an S3 client
func ProvideS3Client(awsCfg aws.Config) *awss3.Client {
	return awss3.NewFromConfig(awsCfg)
}

// ProvideBedrockClient creates a Bedrock runtime client
func ProvideBedrockClient(awsCfg aws.Config) *awsbedrock.Client {
	return awsbedrock.NewFromConfig(awsCfg)
}

// ProvideMetrics creates the metrics publisher
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	return observability.NewMetrics(client, logger, cfg.EnableMetrics)
}

// ProvideUserRepository creates a user repository
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	return dynamodb.NewUserRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideExerciseRepository creates an exercise repository
func ProvideExerciseRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ExerciseRepository {
	return dynamodb.NewExerciseRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideCommentRepository creates a comment repository
func ProvideCommentRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.CommentRepository {
	return dynamodb.NewCommentRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideLikeRepository creates a like repository
func ProvideLikeRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.LikeRepository {
	return dynamodb.NewLikeRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideListRepository creates a list repository
func ProvideListRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ListRepository {
	return dynamodb.NewListRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideFollowerRepository creates a follower repository
func ProvideFollowerRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.FollowerRepository {
	return dynamodb.NewFollowerRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideCatalogCache creates the in-memory catalog snapshot
func ProvideCatalogCache(logger *zap.Logger) ports.CatalogCache {
	return cache.NewCatalogCache(logger)
}

// ProvideIdentityProvider creates the Cognito identity adapter
func ProvideIdentityProvider(client *awscognito.Client, cfg *config.Config, logger *zap.Logger) ports.IdentityProvider {
	return identity.NewCognitoProvider(client, cfg.CognitoUserPoolID, cfg.CognitoClientID, logger)
}

// ProvideMediaStorage creates the S3 media storage adapter
func ProvideMediaStorage(client *awss3.Client, cfg *config.Config, logger *zap.Logger) ports.MediaStorage {
	return storage.NewS3MediaStorage(client, cfg.MediaBucket, cfg.PresignExpirySecs, logger)
}

// ProvideFilterExtractor creates the Bedrock filter extractor
func ProvideFilterExtractor(client *awsbedrock.Client, cfg *config.Config, logger *zap.Logger) ports.FilterExtractor {
	return ai.NewBedrockFilterExtractor(client, cfg.BedrockModelID, logger)
}

// ProvideEventPublisher creates the EventBridge publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideJWTValidator creates the token validator used by the HTTP layer
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideRateLimiters picks the rate limiter backend. Lambda needs the
// DynamoDB-backed limiters; in-process token buckets reset on every
// cold start and never share state between concurrent instances.
func ProvideRateLimiters(client *awsdynamodb.Client, cfg *config.Config) (ip, user auth.RateLimiter) {
	if cfg.IsLambda {
		return auth.NewDistributedIPRateLimiter(client, cfg.DynamoDBTable, 100),
			auth.NewDistributedUserRateLimiter(client, cfg.DynamoDBTable, 200)
	}
	return auth.NewIPRateLimiter(100), auth.NewUserRateLimiter(200)
}

// ProvideTracer creates the X-Ray tracer, or nil when tracing is off.
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	if !cfg.EnableTracing {
		return nil
	}
	return observability.NewTracer("exercisely-backend")
}
