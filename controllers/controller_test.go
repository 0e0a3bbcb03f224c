package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	dbpkg "github.com/netoguild-rgb/crm-seguros-cg-sub000/db"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/require"
)

// setupTestDB abre um sqlite em memória com o schema migrado.
// MaxOpenConns(1) porque cada conexão nova do sqlite em memória é um banco
// vazio diferente.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	database.DB().SetMaxOpenConns(1)
	database.LogMode(false)
	dbpkg.AutoMigrate(database)

	t.Cleanup(func() { database.Close() })
	return database
}

func newTestRouter(database *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(database))
	return r
}

// asUser injeta o usuário direto no contexto, pulando o parse de JWT.
func asUser(user models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

func createTestUser(t *testing.T, database *gorm.DB, email string, plan string) models.User {
	t.Helper()

	user := models.User{
		Name:     "Corretor Teste",
		Email:    email,
		Password: hashPassword(email, "senha-forte"),
		Role:     models.USER_ROLE_USER,
		Status:   models.USER_STATUS_AVAILABLE,
	}
	require.NoError(t, database.Create(&user).Error)

	sub := models.Subscription{
		UserID: user.ID,
		Plan:   plan,
		Status: models.SUBSCRIPTION_STATUS_ACTIVE,
	}
	require.NoError(t, database.Create(&sub).Error)
	return user
}

func performJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func okHandler(c *gin.Context) {
	RespondSuccess(c, gin.H{"ok": true})
}
