// Command seed loads an exercise catalog JSON file into DynamoDB.
//
// Usage:
//
//	seed -file exercises.json [-table exercisely]
//
// The input format matches the free-exercise-db dataset: an array of
// exercise objects with id, name, force, level, mechanic, equipment,
// muscle and instruction fields. Categorical fields are lowercased on
// the way in so catalog filters can compare them directly. Besides the
// metadata item, each exercise gets one muscle-category index item per
// primary muscle.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"exercisely-backend/domain/core/entities"
	"exercisely-backend/infrastructure/config"
	"exercisely-backend/infrastructure/di"
	"exercisely-backend/infrastructure/persistence/dynamodb"

	"github.com/google/uuid"
)

// seedExercise mirrors the free-exercise-db record layout.
type seedExercise struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Force            string   `json:"force"`
	Level            string   `json:"level"`
	Mechanic         string   `json:"mechanic"`
	Equipment        string   `json:"equipment"`
	PrimaryMuscles   []string `json:"primaryMuscles"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
	Instructions     []string `json:"instructions"`
	Category         string   `json:"category"`
	Images           []string `json:"images"`
}

func main() {
	filePath := flag.String("file", "exercises.json", "path to the catalog JSON file")
	tableName := flag.String("table", "", "DynamoDB table name (defaults to TABLE_NAME)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *tableName != "" {
		cfg.DynamoDBTable = *tableName
	}

	logger, err := di.ProvideLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	awsCfg, err := di.ProvideAWSConfig(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to load AWS config", zap.Error(err))
	}
	repo := dynamodb.NewExerciseRepository(di.ProvideDynamoDBClient(awsCfg), cfg.DynamoDBTable, logger)

	data, err := os.ReadFile(*filePath)
	if err != nil {
		logger.Fatal("Failed to read catalog file", zap.String("file", *filePath), zap.Error(err))
	}

	var records []seedExercise
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Fatal("Failed to parse catalog file", zap.Error(err))
	}

	now := time.Now()
	exercises := make([]*entities.Exercise, 0, len(records))
	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id = uuid.New().String()
		}
		exercises = append(exercises, &entities.Exercise{
			ExerciseID:       id,
			Name:             strings.TrimSpace(rec.Name),
			Force:            strings.ToLower(rec.Force),
			Level:            strings.ToLower(rec.Level),
			Mechanic:         strings.ToLower(rec.Mechanic),
			Equipment:        strings.ToLower(rec.Equipment),
			PrimaryMuscles:   lowerAll(rec.PrimaryMuscles),
			SecondaryMuscles: lowerAll(rec.SecondaryMuscles),
			Instructions:     rec.Instructions,
			Category:         strings.ToLower(rec.Category),
			Images:           rec.Images,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	logger.Info("Seeding exercise catalog",
		zap.String("table", cfg.DynamoDBTable),
		zap.Int("count", len(exercises)),
	)

	if err := repo.BulkCreate(ctx, exercises); err != nil {
		logger.Fatal("Failed to seed catalog", zap.Error(err))
	}

	logger.Info("Catalog seeded", zap.Int("count", len(exercises)))
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
