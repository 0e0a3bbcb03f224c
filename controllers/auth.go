package controllers

import (
	"net/http"
	"time"

	dbpkg "github.com/netoguild-rgb/crm-seguros-cg-sub000/db"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/tools"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// hashPassword aplica o esquema de senha da casa:
// sha512(email + ":" + sha512(senha)).
func hashPassword(email string, password string) string {
	passwordEncode := tools.EncryptTextSHA512(password)
	passwordEncode = email + ":" + passwordEncode
	return tools.EncryptTextSHA512(passwordEncode)
}

// POST /api/auth/register (public)
func Register(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	user := models.User{}
	if err := c.Bind(&user); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	missing := user.MissingFields()
	if missing != "" {
		RespondError(c, "Faltando campo "+missing, http.StatusBadRequest)
		return
	}

	if !tools.ValidateEmail(user.Email) {
		RespondError(c, "E-mail inválido!", http.StatusBadRequest)
		return
	}

	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		RespondError(c, "Usuário já existe", http.StatusBadRequest)
		return
	}

	user.Password = hashPassword(user.Email, user.Password)
	user.Role = models.USER_ROLE_USER
	user.Status = models.USER_STATUS_AVAILABLE

	tx := db.Begin()
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	// Todo usuário nasce no free; a linha de assinatura já existe desde o
	// registro, então "exatamente 1 plano efetivo por usuário" vale sempre.
	sub := models.Subscription{
		UserID: user.ID,
		Plan:   models.PLAN_FREE,
		Status: models.SUBSCRIPTION_STATUS_ACTIVE,
	}
	if err := tx.Create(&sub).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	user.Password = ""
	RespondSuccess(c, user)
}

// POST /api/auth/login (public)
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		RespondError(c, "email e password são obrigatórios", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		RespondError(c, "usuário ou senha inválidos", http.StatusUnauthorized)
		return
	}

	if user.Password != hashPassword(user.Email, req.Password) {
		RespondError(c, "usuário ou senha inválidos", http.StatusUnauthorized)
		return
	}

	if user.Status == models.USER_STATUS_BLOCKED {
		RespondError(c, "usuário bloqueado", http.StatusForbidden)
		return
	}

	signed, err := signHS256JWT(getJWTSecret(), map[string]any{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	})
	if err != nil {
		RespondError(c, "erro ao assinar token", http.StatusInternalServerError)
		return
	}

	user.Password = ""
	RespondSuccess(c, LoginResponse{Token: signed, User: user})
}

// GET /api/auth/me
// Devolve o usuário logado + plano efetivo, pro front montar o gating
// (que é só dica visual: o servidor revalida toda escrita gated).
func Me(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	plan := CurrentPlan(db, user.ID)

	user.Password = ""
	RespondSuccess(c, gin.H{"user": user, "plan": plan})
}
