package graphql_test

import (
	"strconv"
	"testing"

	gql "github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appgraphql "github.com/bloomcart/bloomcart/app/graphql"
	"github.com/bloomcart/bloomcart/app/models"
	"github.com/bloomcart/bloomcart/app/repositories"
	"github.com/bloomcart/bloomcart/pkg/database"
)

func setupSchema(t *testing.T) gql.Schema {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Flower{}, &models.Order{}, &models.OrderItem{},
	))
	database.DB = db
	t.Cleanup(func() { database.DB = nil })

	schema, err := appgraphql.NewSchema(
		repositories.NewFlowerRepository(),
		repositories.NewOrderRepository(),
	)
	require.NoError(t, err)
	return schema
}

func itoa(n int) string { return strconv.Itoa(n) }

func exec(t *testing.T, schema gql.Schema, query string) map[string]interface{} {
	t.Helper()

	result := gql.Do(gql.Params{Schema: schema, RequestString: query})
	require.Empty(t, result.Errors, "unexpected GraphQL errors")

	data, ok := result.Data.(map[string]interface{})
	require.True(t, ok)
	return data
}

func TestCreateAndListFlowers(t *testing.T) {
	schema := setupSchema(t)

	data := exec(t, schema, `mutation {
		createFlower(name: "Rose", imageUrl: "images/rose.jpg", length: 51, price: 150) {
			id name imageUrl length price
		}
	}`)

	created := data["createFlower"].(map[string]interface{})
	assert.Equal(t, "Rose", created["name"])
	assert.Equal(t, 51.0, created["length"])
	assert.Equal(t, 150.0, created["price"])
	assert.NotZero(t, created["id"])

	data = exec(t, schema, `{ allFlowers { name price } }`)
	flowers := data["allFlowers"].([]interface{})
	require.Len(t, flowers, 1)
	assert.Equal(t, "Rose", flowers[0].(map[string]interface{})["name"])
}

func TestCreateFlowerValidation(t *testing.T) {
	schema := setupSchema(t)

	result := gql.Do(gql.Params{Schema: schema, RequestString: `mutation {
		createFlower(name: "Rose", imageUrl: "x", length: 0, price: 150) { id }
	}`})
	require.NotEmpty(t, result.Errors)

	result = gql.Do(gql.Params{Schema: schema, RequestString: `mutation {
		createFlower(name: "Rose", imageUrl: "x", length: 51, price: -1) { id }
	}`})
	require.NotEmpty(t, result.Errors)

	// A missing required argument fails at schema level.
	result = gql.Do(gql.Params{Schema: schema, RequestString: `mutation {
		createFlower(name: "Rose") { id }
	}`})
	require.NotEmpty(t, result.Errors)
}

func TestUpdateFlowerIsPartial(t *testing.T) {
	schema := setupSchema(t)

	data := exec(t, schema, `mutation {
		createFlower(name: "Tulip", imageUrl: "images/tulip.jpg", length: 62, price: 120) { id }
	}`)
	id := data["createFlower"].(map[string]interface{})["id"].(int)

	data = exec(t, schema, `mutation {
		updateFlower(id: `+itoa(id)+`, price: 135) { name length price }
	}`)
	updated := data["updateFlower"].(map[string]interface{})
	assert.Equal(t, 135.0, updated["price"])
	// Untouched fields keep their values.
	assert.Equal(t, "Tulip", updated["name"])
	assert.Equal(t, 62.0, updated["length"])
}

func TestUpdateUnknownFlowerYieldsNull(t *testing.T) {
	schema := setupSchema(t)

	data := exec(t, schema, `mutation { updateFlower(id: 9999, price: 10) { id } }`)
	assert.Nil(t, data["updateFlower"])
}

func TestDeleteFlower(t *testing.T) {
	schema := setupSchema(t)

	data := exec(t, schema, `mutation {
		createFlower(name: "Lily", imageUrl: "images/lily.jpg", length: 56, price: 180) { id }
	}`)
	id := data["createFlower"].(map[string]interface{})["id"].(int)

	data = exec(t, schema, `mutation { deleteFlower(id: `+itoa(id)+`) { success } }`)
	assert.Equal(t, true, data["deleteFlower"].(map[string]interface{})["success"])

	// Deleting again reports failure instead of erroring.
	data = exec(t, schema, `mutation { deleteFlower(id: `+itoa(id)+`) { success } }`)
	assert.Equal(t, false, data["deleteFlower"].(map[string]interface{})["success"])

	data = exec(t, schema, `{ allFlowers { id } }`)
	assert.Empty(t, data["allFlowers"])
}

func TestAllOrdersSpansUsers(t *testing.T) {
	schema := setupSchema(t)

	orders := []models.Order{
		{Recipient: "Alice", Address: "1 Garden Lane", UserID: 1,
			Items: []models.OrderItem{{FlowerID: 1, FlowerName: "Rose", Quantity: 2, Position: 1}}},
		{Recipient: "Bob", Address: "2 Meadow Row", UserID: 2,
			Items: []models.OrderItem{{FlowerID: 2, FlowerName: "Tulip", Quantity: 1, Position: 1}}},
	}
	for i := range orders {
		require.NoError(t, database.DB.Create(&orders[i]).Error)
	}

	data := exec(t, schema, `{ allOrders { recipient selection userId } }`)
	got := data["allOrders"].([]interface{})
	require.Len(t, got, 2)

	first := got[0].(map[string]interface{})
	assert.Equal(t, "Alice", first["recipient"])
	assert.Equal(t, "Rose (2 pcs)", first["selection"])
	assert.Equal(t, 1, first["userId"])
}
