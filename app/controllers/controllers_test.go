package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bloomcart/bloomcart/app/controllers"
	"github.com/bloomcart/bloomcart/app/models"
	"github.com/bloomcart/bloomcart/app/services"
	"github.com/bloomcart/bloomcart/config"
	"github.com/bloomcart/bloomcart/pkg/auth"
	"github.com/bloomcart/bloomcart/pkg/database"
	"github.com/bloomcart/bloomcart/pkg/middleware"
	"github.com/bloomcart/bloomcart/pkg/rbac"
	"github.com/bloomcart/bloomcart/pkg/session"
)

func setupDB(t *testing.T) {
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
}

func seedFlower(t *testing.T, name string, length, price float64) models.Flower {
	t.Helper()
	flower := models.Flower{Name: name, ImageURL: "images/" + strings.ToLower(name) + ".jpg", Length: length, Price: price}
	require.NoError(t, database.DB.Create(&flower).Error)
	return flower
}

func registerUser(t *testing.T, username, email string) models.User {
	t.Helper()
	user, err := services.NewAuthService().Register(services.RegisterInput{
		Username:             username,
		Email:                email,
		Password:             "correct-horse",
		PasswordConfirmation: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

// authedStack builds the middleware chain an authenticated API request
// passes through on its way to handler.
func authedStack(handler http.HandlerFunc) http.Handler {
	return session.Middleware(session.DefaultOptions())(
		middleware.ResolveIdentity(services.NewAuthService().LookupRole)(
			middleware.RequireAuth(handler)))
}

func TestTokenIssue(t *testing.T) {
	setupDB(t)
	config.Set("APP_KEY", "test-key")
	user := registerUser(t, "alice", "alice@example.com")
	tokens := controllers.NewTokenController()

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/token",
		strings.NewReader(`{"email":"alice@example.com","password":"correct-horse"}`))
	tokens.Issue(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	claims, err := auth.ValidateToken(body.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestTokenIssueRejectsBadCredentials(t *testing.T) {
	setupDB(t)
	registerUser(t, "alice", "alice@example.com")
	tokens := controllers.NewTokenController()

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/token",
		strings.NewReader(`{"email":"alice@example.com","password":"wrong"}`))
	tokens.Issue(rec, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/api/token",
		strings.NewReader(`{"email":"not-an-email","password":""}`))
	tokens.Issue(rec, r)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCatalogIndexJSON(t *testing.T) {
	setupDB(t)
	seedFlower(t, "Rose", 51, 150)
	seedFlower(t, "Tulip", 62, 120)
	catalog := controllers.NewCatalogController()

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/?length=60-70", nil)
	r.Header.Set("Accept", "application/json")
	catalog.Index(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []models.Flower `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Tulip", body.Data[0].Name)
}

func TestCatalogIndexRejectsMalformedFilter(t *testing.T) {
	setupDB(t)
	catalog := controllers.NewCatalogController()

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/?price=abc", nil)
	r.Header.Set("Accept", "application/json")
	catalog.Index(rec, r)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPlaceOrderOverHTTP(t *testing.T) {
	setupDB(t)
	config.Set("APP_KEY", "test-key")
	rose := seedFlower(t, "Rose", 51, 150)
	user := registerUser(t, "alice", "alice@example.com")
	catalog := controllers.NewCatalogController()

	token, err := auth.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)

	payload := `{"recipient":"Alice","address":"1 Garden Lane","message":"hi","items":[{"flower_id":` +
		jsonUint(rose.ID) + `,"quantity":2}]}`

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")
	r.Header.Set("Authorization", "Bearer "+token)
	authedStack(catalog.Place).ServeHTTP(rec, r)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var count int64
	require.NoError(t, database.DB.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPlaceOrderRequiresAuth(t *testing.T) {
	setupDB(t)
	catalog := controllers.NewCatalogController()

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")
	authedStack(catalog.Place).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoleGate(t *testing.T) {
	setupDB(t)
	config.Set("APP_KEY", "test-key")
	user := registerUser(t, "alice", "alice@example.com")

	reached := false
	gate := session.Middleware(session.DefaultOptions())(
		middleware.ResolveIdentity(nil)(
			rbac.HasRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
			}))))

	// A regular user's token is not enough.
	token, err := auth.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	gate.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)

	// Anonymous callers get the identical response.
	rec = httptest.NewRecorder()
	gate.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// An admin token passes.
	admin, err := services.NewAuthService().CreateAdmin("root", "root@example.com", "correct-horse")
	require.NoError(t, err)
	adminToken, err := auth.GenerateToken(admin.ID, admin.Role)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/graphql", nil)
	r.Header.Set("Authorization", "Bearer "+adminToken)
	gate.ServeHTTP(rec, r)
	assert.True(t, reached)
}

func jsonUint(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}
