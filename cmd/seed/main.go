package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
)

// ingredientFixture mirrors one entry of the ingredients JSON file.
type ingredientFixture struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}

type tagFixture struct {
	Name  string `validate:"required,max=200"`
	Color string `validate:"required,hexcolor"`
	Slug  string `validate:"required,max=200"`
}

// tagColors assigns a display color to each of the fixed tag names.
var tagColors = map[string]string{
	"breakfast": "#E26C2D",
	"lunch":     "#49B64E",
	"dinner":    "#8775D2",
}

// defaultTags builds the fixed tag set; name doubles as the slug.
func defaultTags() []tagFixture {
	tags := make([]tagFixture, 0, len(models.TagNames))
	for _, name := range models.TagNames {
		tags = append(tags, tagFixture{Name: name, Color: tagColors[name], Slug: name})
	}
	return tags
}

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	validate := validator.New()

	if err := seedTags(db, validate); err != nil {
		logger.Fatal("failed to seed tags", zap.Error(err))
	}
	logger.Info("tags seeded", zap.Int("count", len(models.TagNames)))

	count, err := seedIngredients(db, validate, cfg.IngredientsFile)
	if err != nil {
		logger.Fatal("failed to seed ingredients", zap.Error(err))
	}
	logger.Info("ingredients seeded",
		zap.String("file", cfg.IngredientsFile),
		zap.Int("count", count))
}

func seedTags(db *gorm.DB, validate *validator.Validate) error {
	fixtures := defaultTags()
	tags := make([]models.Tag, 0, len(fixtures))
	for _, t := range fixtures {
		if err := validate.Struct(t); err != nil {
			return fmt.Errorf("invalid tag %q: %w", t.Slug, err)
		}
		tags = append(tags, models.Tag{Name: t.Name, Color: t.Color, Slug: t.Slug})
	}
	// Re-running the seeder must not duplicate tags.
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&tags).Error
}

func seedIngredients(db *gorm.DB, validate *validator.Validate, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading ingredients file: %w", err)
	}

	var fixtures []ingredientFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return 0, fmt.Errorf("parsing ingredients file: %w", err)
	}

	ingredients := make([]models.Ingredient, 0, len(fixtures))
	for i, f := range fixtures {
		if err := validate.Struct(f); err != nil {
			return 0, fmt.Errorf("invalid ingredient at index %d: %w", i, err)
		}
		ingredients = append(ingredients, models.Ingredient{
			Name:            f.Name,
			MeasurementUnit: f.MeasurementUnit,
		})
	}

	const batchSize = 500
	if err := db.CreateInBatches(&ingredients, batchSize).Error; err != nil {
		return 0, err
	}
	return len(ingredients), nil
}
