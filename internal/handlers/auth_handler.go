package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/alpha-clean/internal/audit"
	"github.com/BruksfildServices01/alpha-clean/internal/auth"
	"github.com/BruksfildServices01/alpha-clean/internal/httperr"
	"github.com/BruksfildServices01/alpha-clean/internal/httpresp"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
	"github.com/BruksfildServices01/alpha-clean/internal/middleware"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
	"github.com/BruksfildServices01/alpha-clean/internal/notify"
	"github.com/BruksfildServices01/alpha-clean/internal/validators"
)

const (
	cookieSession = "has_session"
	cookieRole    = "role"
)

type AuthHandler struct {
	db      *gorm.DB
	issuer  *auth.Issuer
	revoked auth.RevocationStore
	resets  auth.ResetTokenStore
	mailer  *notify.PasswordResetMailer
	emails  *validators.EmailValidator
	audit   audit.Publisher
	logger  *logging.Logger
	secure  bool
}

type AuthDeps struct {
	DB            *gorm.DB
	Issuer        *auth.Issuer
	Revoked       auth.RevocationStore
	Resets        auth.ResetTokenStore
	Mailer        *notify.PasswordResetMailer
	Emails        *validators.EmailValidator
	Audit         audit.Publisher
	Logger        *logging.Logger
	SecureCookies bool
}

func NewAuthHandler(d AuthDeps) *AuthHandler {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	return &AuthHandler{
		db:      d.DB,
		issuer:  d.Issuer,
		revoked: d.Revoked,
		resets:  d.Resets,
		mailer:  d.Mailer,
		emails:  d.Emails,
		audit:   d.Audit,
		logger:  d.Logger,
		secure:  d.SecureCookies,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"nome" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"required,min=6"`
	Phone    string `json:"telefone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"senha" binding:"required,min=6"`
}

type UpdateMeRequest struct {
	Name  *string `json:"nome,omitempty"`
	Phone *string `json:"telefone,omitempty"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !h.emails.DomainValid(c.Request.Context(), email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		writeError(c, h.logger, err)
		return
	}
	if count > 0 {
		writeError(c, h.logger, httperr.ErrBusiness("email_already_exists"))
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	// cadastro público sempre cria cliente
	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashed,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         models.RoleCliente,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		writeError(c, h.logger, err)
		return
	}

	writeAudit(c, h.audit, "user_registered", "user", &user.ID, nil)

	h.startSession(c, http.StatusCreated, &user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", validators.NormalizeEmail(req.Email)).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha incorretos.")
			return
		}
		writeError(c, h.logger, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha incorretos.")
		return
	}

	h.startSession(c, http.StatusOK, &user)
}

// Logout revoga o jti até a expiração natural e limpa os cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.revoked != nil {
		if err := h.revoked.Revoke(
			c.Request.Context(),
			middleware.TokenID(c),
			middleware.TokenExpiry(c),
		); err != nil {
			writeError(c, h.logger, err)
			return
		}
	}

	h.clearCookies(c)
	httpresp.OK(c, gin.H{"message": "Sessão encerrada."})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	httpresp.OK(c, gin.H{"user": user})
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	var req UpdateMeRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(c, h.logger, httperr.ErrBusiness("missing_fields"))
			return
		}
		user.Name = name
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}

	if err := h.db.WithContext(c.Request.Context()).Save(user).Error; err != nil {
		writeError(c, h.logger, err)
		return
	}

	httpresp.OK(c, gin.H{"user": user})
}

// --------- Reset de senha ---------

// ForgotPassword responde 200 mesmo quando o e-mail não existe.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	ok := gin.H{"message": "Se o e-mail estiver cadastrado, você receberá um link para redefinir a senha."}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", validators.NormalizeEmail(req.Email)).
		First(&user).Error; err != nil {

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Error("forgot password lookup failed", "error", err)
		}
		httpresp.OK(c, ok)
		return
	}

	token, err := h.resets.Create(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	if err := h.mailer.SendReset(c.Request.Context(), user.Name, user.Email, token); err != nil {
		h.logger.Error("password reset email failed",
			"user_id", user.ID,
			"error", err,
		)
	}

	writeAudit(c, h.audit, "password_reset_requested", "user", &user.ID, nil)

	httpresp.OK(c, ok)
}

func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	if _, err := h.resets.Lookup(c.Request.Context(), c.Param("token")); err != nil {
		h.resetTokenError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"valid": true})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	userID, err := h.resets.Consume(c.Request.Context(), req.Token)
	if err != nil {
		h.resetTokenError(c, err)
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", hashed)
	if res.Error != nil {
		writeError(c, h.logger, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeError(c, h.logger, httperr.ErrBusiness("user_not_found"))
		return
	}

	writeAudit(c, h.audit, "password_reset", "user", &userID, nil)

	httpresp.OK(c, gin.H{"message": "Senha redefinida com sucesso."})
}

// --------- Sessão ---------

func (h *AuthHandler) startSession(c *gin.Context, status int, user *models.User) {
	token, _, err := h.issuer.Issue(user.ID, user.Role)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	maxAge := int(h.issuer.TTL().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieSession, "1", maxAge, "/", "", h.secure, false)
	c.SetCookie(cookieRole, user.Role, maxAge, "/", "", h.secure, false)

	c.JSON(status, AuthResponse{Token: token, User: *user})
}

func (h *AuthHandler) clearCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieSession, "", -1, "/", "", h.secure, false)
	c.SetCookie(cookieRole, "", -1, "/", "", h.secure, false)
}

func (h *AuthHandler) currentUser(c *gin.Context) (*models.User, error) {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		First(&user, middleware.UserID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("user_not_found")
		}
		return nil, err
	}
	return &user, nil
}

func (h *AuthHandler) resetTokenError(c *gin.Context, err error) {
	if errors.Is(err, auth.ErrResetTokenInvalid) {
		httperr.BadRequest(c, "invalid_reset_token", "Link inválido ou expirado. Solicite um novo.")
		return
	}
	writeError(c, h.logger, err)
}
