package controllers

import (
	"fmt"
	"log"
	"strings"
	"time"

	dbpkg "github.com/netoguild-rgb/crm-seguros-cg-sub000/db"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/models"
	"github.com/netoguild-rgb/crm-seguros-cg-sub000/tools"

	"github.com/gin-gonic/gin"
)

// POST /api/auth/forgot-password (public)
// Body: { "email": "..." }
// Retorna sempre true (anti enumeração).
func ForgotPassword(c *gin.Context) {
	type Request struct {
		Email string `json:"email" form:"email"`
	}

	var req Request
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		RespondSuccess(c, true)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondSuccess(c, true)
		return
	}

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		RespondSuccess(c, true)
		return
	}

	// Mantém 1 token ativo por usuário
	_ = db.Where("user_id = ? AND used_at IS NULL", user.ID).Delete(&models.PasswordReset{}).Error

	tokenText := tools.RandomNumbers(6)
	exp := time.Now().Add(15 * time.Minute)
	reset := models.PasswordReset{
		UserID:    user.ID,
		TokenHash: tools.EncryptTextSHA512(tokenText),
		ExpiresAt: &exp,
	}
	if err := db.Create(&reset).Error; err != nil {
		RespondSuccess(c, true)
		return
	}

	body := fmt.Sprintf("Código para recuperação de senha: %s\n\nAtenção: a equipe de suporte nunca vai pedir esse código pra você.", tokenText)
	if err := mailer.Send(user.Email, "Recuperação de senha", body); err != nil {
		// best-effort; anti-enumeração: nunca quebra o fluxo
		log.Printf("forgot password: mail send failed user_id=%d err=%v", user.ID, err)
	}

	RespondSuccess(c, true)
}

// POST /api/auth/reset-password (public)
// Body: { "email": "...", "token": "123456", "new_password": "..." }
// Retorna true/false. Consome o token e revoga refresh tokens.
func ResetPassword(c *gin.Context) {
	type Request struct {
		Email       string `json:"email" form:"email"`
		Token       string `json:"token" form:"token"`
		NewPassword string `json:"new_password" form:"new_password"`
	}

	var req Request
	if err := c.Bind(&req); err != nil {
		RespondSuccess(c, false)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Token = strings.TrimSpace(req.Token)
	req.NewPassword = strings.TrimSpace(req.NewPassword)

	if req.Email == "" || req.Token == "" || req.NewPassword == "" {
		RespondSuccess(c, false)
		return
	}
	if tools.CheckPassword(req.NewPassword) != "" {
		RespondSuccess(c, false)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondSuccess(c, false)
		return
	}

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		RespondSuccess(c, false)
		return
	}

	tokenHash := tools.EncryptTextSHA512(req.Token)

	var reset models.PasswordReset
	err := db.
		Where("user_id = ? AND token_hash = ? AND used_at IS NULL AND expires_at > ?", user.ID, tokenHash, time.Now()).
		Order("id desc").
		First(&reset).Error
	if err != nil {
		RespondSuccess(c, false)
		return
	}

	tx := db.Begin()

	if err := tx.Model(&user).Update("password", hashPassword(user.Email, req.NewPassword)).Error; err != nil {
		tx.Rollback()
		RespondSuccess(c, false)
		return
	}

	now := time.Now()
	if err := tx.Model(&reset).Update("used_at", &now).Error; err != nil {
		tx.Rollback()
		RespondSuccess(c, false)
		return
	}

	// Revoga refresh tokens do usuário (força novo login)
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{}).Error; err != nil {
		tx.Rollback()
		RespondSuccess(c, false)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondSuccess(c, false)
		return
	}

	RespondSuccess(c, true)
}
