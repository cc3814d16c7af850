package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/config"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/httperr"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/validators"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config

	// checkEmailDomain is swapped in tests to avoid DNS lookups.
	checkEmailDomain func(string) bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, checkEmailDomain: validators.IsEmailDomainValid}
}

// --------- Requests ---------

type RegisterRequest struct {
	BarbershopName     string `json:"barbershop_name" binding:"required"`
	BarbershopSlug     string `json:"barbershop_slug" binding:"required"`
	BarbershopPhone    string `json:"barbershop_phone"`
	BarbershopAddress  string `json:"barbershop_address"`
	BarbershopTimezone string `json:"barbershop_timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.BarbershopSlug))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !h.checkEmailDomain(email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	tz := timezone.DefaultTimezone
	if req.BarbershopTimezone != "" {
		if !timezone.IsValid(req.BarbershopTimezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		tz = req.BarbershopTimezone
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar senha.")
		return
	}

	ctx := c.Request.Context()

	var count int64
	if err := h.db.WithContext(ctx).Model(&models.Barbershop{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}
	if count > 0 {
		httperr.Conflict(c, "slug_already_exists", "Este endereço de barbearia já está em uso.")
		return
	}

	shop := models.Barbershop{
		Name:                     req.BarbershopName,
		Slug:                     slug,
		Phone:                    req.BarbershopPhone,
		Address:                  req.BarbershopAddress,
		Timezone:                 tz,
		MinAdvanceMinutes:        1,
		SlotIntervalMinutes:      15,
		FailOpenOnUnloadedConfig: true,
	}
	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         models.RoleOwner,
	}

	// barbershop and owner are created together or not at all
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&shop).Error; err != nil {
			return err
		}
		user.BarbershopID = shop.ID
		return tx.Create(&user).Error
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_exists", "E-mail já cadastrado.")
			return
		}
		httperr.Internal(c, "failed_to_register", "Erro ao criar conta.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar token.")
		return
	}

	c.JSON(http.StatusCreated, authResponse(&user, &shop, token))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Barbershop").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar token.")
		return
	}

	c.JSON(http.StatusOK, authResponse(&user, &user.Barbershop, token))
}

func authResponse(user *models.User, shop *models.Barbershop, token string) gin.H {
	return gin.H{
		"user": gin.H{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"phone":         user.Phone,
			"role":          user.Role,
			"barbershop_id": user.BarbershopID,
		},
		"barbershop": gin.H{
			"id":       shop.ID,
			"name":     shop.Name,
			"slug":     shop.Slug,
			"phone":    shop.Phone,
			"address":  shop.Address,
			"timezone": shop.Timezone,
		},
		"token": token,
	}
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":          user.ID,
		"barbershopId": user.BarbershopID,
		"role":         user.Role,
		"exp":          now.Add(tokenTTL).Unix(),
		"iat":          now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
