package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/testhelpers"
)

func TestListTagsEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	testhelpers.CreateTestTag(t, env.DB, "breakfast")
	testhelpers.CreateTestTag(t, env.DB, "dinner")

	w := env.request(t, "GET", "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tags []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0]["slug"])
}

func TestGetTagEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	tag := testhelpers.CreateTestTag(t, env.DB, "breakfast")

	w := env.request(t, "GET", "/api/tags/"+tag.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "breakfast", decodeJSON(t, w)["slug"])

	w = env.request(t, "GET", "/api/tags/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListIngredientsEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	testhelpers.CreateTestIngredient(t, env.DB, "Milk", "ml")
	testhelpers.CreateTestIngredient(t, env.DB, "whole milk", "ml")
	testhelpers.CreateTestIngredient(t, env.DB, "Salt", "g")

	w := env.request(t, "GET", "/api/ingredients?name=mil", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ingredients []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Milk", ingredients[0]["name"])
}

func TestGetIngredientEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	salt := testhelpers.CreateTestIngredient(t, env.DB, "Salt", "g")

	w := env.request(t, "GET", "/api/ingredients/"+salt.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON(t, w)
	assert.Equal(t, "Salt", resp["name"])
	assert.Equal(t, "g", resp["measurement_unit"])
}
