package controllers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"

	"github.com/rcamargo/likert-server/middleware"
	"github.com/rcamargo/likert-server/models"
	"github.com/rcamargo/likert-server/utils"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

type registerReq struct {
	Name     string `json:"name" binding:"required,min=1"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// POST /api/auth/register
func (a *AuthController) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var count int64
	a.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Email já cadastrado"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Não foi possível gerar o hash da senha"})
		return
	}

	u := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		IsAdmin:  false, // new accounts are never admin
	}

	if err := a.DB.Create(&u).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao criar usuário"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": u})
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var u models.User
	if err := a.DB.Where("email = ?", req.Email).First(&u).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Usuário não encontrado"})
		return
	}

	if !utils.CheckPassword(u.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Senha incorreta"})
		return
	}

	token, err := utils.GenerateToken(fmt.Sprint(u.ID), roleOf(u))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao gerar token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

type googleLoginReq struct {
	IDToken string `json:"id_token" binding:"required"`
}

// POST /api/auth/google/login
// Verifies a Google ID token and signs the matching account in, creating it
// on first sight. Google accounts get an unusable random password.
func (a *AuthController) GoogleLogin(c *gin.Context) {
	var req googleLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	payload, err := idtoken.Validate(c.Request.Context(), req.IDToken, os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Token Google inválido"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Token Google sem email"})
		return
	}
	if name == "" {
		name = email
	}

	var u models.User
	err = a.DB.Where("email = ?", email).First(&u).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao buscar usuário"})
			return
		}
		hash, herr := utils.HashPassword(utils.RandomToken())
		if herr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao criar usuário"})
			return
		}
		u = models.User{Name: name, Email: email, Password: hash}
		if cerr := a.DB.Create(&u).Error; cerr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao criar usuário"})
			return
		}
	}

	token, err := utils.GenerateToken(fmt.Sprint(u.ID), roleOf(u))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao gerar token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

// GET /api/me
func (a *AuthController) Me(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func roleOf(u models.User) string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}
