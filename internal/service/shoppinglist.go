package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Column labels of the export document. Order is part of the contract.
var shoppingListHeaders = []string{"ingredient", "measurement_unit", "amount"}

// ShoppingListItem is one aggregated line of the export: all cart recipes'
// amounts summed per (ingredient name, measurement unit) pair.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// ShoppingListService builds the consolidated ingredient list for a user's
// shopping cart.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate resolves every ingredient amount referenced by recipes in the
// user's cart, grouped by (name, unit) rather than ingredient id so two
// ingredient records sharing both collapse into one line, summed and
// sorted by name.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Render produces the plain-text export: a header line and one
// space-separated line per aggregated item, each newline-terminated. An
// empty cart yields just the header.
func (s *ShoppingListService) Render(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString(strings.Join(shoppingListHeaders, " ") + "\n")
	for _, item := range items {
		b.WriteString(item.Name + " " + item.MeasurementUnit + " " + strconv.Itoa(item.Amount) + "\n")
	}
	return b.String()
}

// FileName is the suggested download name, timestamped to the second.
func (s *ShoppingListService) FileName(now time.Time) string {
	return fmt.Sprintf("shopping_cart_%s.txt", now.Format("2006-01-02_15-04-05"))
}
