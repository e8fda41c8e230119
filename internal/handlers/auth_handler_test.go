package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/alpha-clean/internal/auth"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
	"github.com/BruksfildServices01/alpha-clean/internal/middleware"
	"github.com/BruksfildServices01/alpha-clean/internal/notify"
	"github.com/BruksfildServices01/alpha-clean/internal/validators"
)

const (
	userByEmailSQL = `SELECT \* FROM "users" WHERE email = \$1 ORDER BY "users"."id" LIMIT \$2`
	userCountSQL   = `SELECT count\(\*\) FROM "users" WHERE email = \$1`
	userInsertSQL  = `INSERT INTO "users"`
)

var userColumns = []string{"id", "name", "email", "password_hash", "phone", "role"}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

type sentEmails struct {
	mu   sync.Mutex
	msgs []notify.EmailMessage
}

func (s *sentEmails) Send(_ context.Context, msg notify.EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *sentEmails) all() []notify.EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.EmailMessage{}, s.msgs...)
}

type authFixture struct {
	router *gin.Engine
	mock   sqlmock.Sqlmock
	redis  *miniredis.Miniredis
	emails *sentEmails
	audit  *recordingAudit
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	db, mock := newMockDB(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	revoked := auth.NewRedisRevocationStore(rdb)
	emails := &sentEmails{}
	rec := &recordingAudit{}

	h := NewAuthHandler(AuthDeps{
		DB:      db,
		Issuer:  testIssuer,
		Revoked: revoked,
		Resets:  auth.NewRedisResetTokenStore(rdb),
		Mailer:  notify.NewPasswordResetMailer(emails, "https://alphaclean.com.br/"),
		Emails:  validators.NewEmailValidator(nil),
		Audit:   rec,
		Logger:  logging.Discard(),
	})

	r := gin.New()
	g := r.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/forgot-password", h.ForgotPassword)
	g.POST("/reset-password", h.ResetPassword)

	authenticated := middleware.AuthMiddleware(testIssuer, revoked, logging.Discard())
	g.POST("/logout", authenticated, h.Logout)
	g.GET("/me", authenticated, h.Me)

	return &authFixture{router: r, mock: mock, redis: mr, emails: emails, audit: rec}
}

func cookiesByName(w interface{ Result() *http.Response }) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestRegisterBindingRules(t *testing.T) {
	f := newAuthFixture(t)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed json", `{"nome":`, "invalid_request"},
		{"missing name", `{"email":"ana@gmail.com","senha":"segredo1"}`, "missing_fields"},
		{"bad email", `{"nome":"Ana","email":"ana@","senha":"segredo1"}`, "invalid_email"},
		{"display name email", `{"nome":"Ana","email":"Ana <ana@gmail.com>","senha":"segredo1"}`, "invalid_email"},
		{"short password", `{"nome":"Ana","email":"ana@gmail.com","senha":"12345"}`, "weak_password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(f.router, http.MethodPost, "/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w.Body.Bytes()))
		})
	}

	assert.NoError(t, f.mock.ExpectationsWereMet(), "nenhuma consulta antes da validação")
}

func TestRegisterStartsSessionWithCookies(t *testing.T) {
	f := newAuthFixture(t)

	f.mock.ExpectQuery(userCountSQL).
		WithArgs("ana@gmail.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	f.mock.ExpectBegin()
	f.mock.ExpectQuery(userInsertSQL).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	f.mock.ExpectCommit()

	w := doJSON(f.router, http.MethodPost, "/auth/register", "",
		`{"nome":" Ana ","email":"Ana@Gmail.com","senha":"segredo1","telefone":"11999990000"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"token":"`)
	assert.Contains(t, w.Body.String(), `"role":"cliente"`)
	assert.NotContains(t, w.Body.String(), "segredo1")

	cookies := cookiesByName(w)
	require.Contains(t, cookies, "has_session")
	require.Contains(t, cookies, "role")
	assert.Equal(t, "1", cookies["has_session"].Value)
	assert.Equal(t, "cliente", cookies["role"].Value)
	assert.False(t, cookies["role"].HttpOnly, "o front lê os cookies")
	assert.Equal(t, int(time.Hour.Seconds()), cookies["has_session"].MaxAge)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)

	f.mock.ExpectQuery(userCountSQL).
		WithArgs("ana@gmail.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := doJSON(f.router, http.MethodPost, "/auth/register", "",
		`{"nome":"Ana","email":"ana@gmail.com","senha":"segredo1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email_already_exists", decodeError(t, w.Body.Bytes()))
}

func TestLoginLogoutMirrorsSessionCookies(t *testing.T) {
	f := newAuthFixture(t)

	hash, err := auth.HashPassword("segredo1")
	require.NoError(t, err)

	f.mock.ExpectQuery(userByEmailSQL).
		WithArgs("admin@alphaclean.com.br", 1).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "Admin", "admin@alphaclean.com.br", hash, "", "admin"))

	w := doJSON(f.router, http.MethodPost, "/auth/login", "",
		`{"email":"Admin@AlphaClean.com.br","senha":"segredo1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := cookiesByName(w)
	assert.Equal(t, "1", cookies["has_session"].Value)
	assert.Equal(t, "admin", cookies["role"].Value)

	token := tokenFor(t, 1, "admin")

	w = doJSON(f.router, http.MethodPost, "/auth/logout", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	cleared := cookiesByName(w)
	require.Contains(t, cleared, "has_session")
	require.Contains(t, cleared, "role")
	assert.Empty(t, cleared["has_session"].Value)
	assert.Negative(t, cleared["has_session"].MaxAge)
	assert.Negative(t, cleared["role"].MaxAge)

	// o jti revogado não passa mais pelo middleware
	w = doJSON(f.router, http.MethodGet, "/auth/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token_revoked", decodeError(t, w.Body.Bytes()))

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)

	hash, err := auth.HashPassword("segredo1")
	require.NoError(t, err)

	f.mock.ExpectQuery(userByEmailSQL).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "Admin", "admin@alphaclean.com.br", hash, "", "admin"))

	w := doJSON(f.router, http.MethodPost, "/auth/login", "",
		`{"email":"admin@alphaclean.com.br","senha":"errada1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", decodeError(t, w.Body.Bytes()))
	assert.Empty(t, w.Result().Cookies())
}

func TestForgotPasswordAlwaysOK(t *testing.T) {
	f := newAuthFixture(t)

	// e-mail desconhecido
	f.mock.ExpectQuery(userByEmailSQL).
		WithArgs("ninguem@gmail.com", 1).
		WillReturnRows(sqlmock.NewRows(userColumns))

	w := doJSON(f.router, http.MethodPost, "/auth/forgot-password", "", `{"email":"ninguem@gmail.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	unknownBody := w.Body.String()
	assert.Empty(t, f.emails.all())

	// e-mail cadastrado
	f.mock.ExpectQuery(userByEmailSQL).
		WithArgs("ana@gmail.com", 1).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(10, "Ana", "ana@gmail.com", "x", "", "cliente"))

	w = doJSON(f.router, http.MethodPost, "/auth/forgot-password", "", `{"email":"ana@gmail.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, unknownBody, w.Body.String(), "resposta não revela se o e-mail existe")

	sent := f.emails.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "ana@gmail.com", sent[0].To)
	assert.True(t, strings.Contains(sent[0].Body, "https://alphaclean.com.br/reset-password?token="))
	assert.Len(t, f.redis.Keys(), 1, "um token de reset gravado")

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestResetPasswordBinding(t *testing.T) {
	f := newAuthFixture(t)

	w := doJSON(f.router, http.MethodPost, "/auth/reset-password", "", `{"token":"abc","senha":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "weak_password", decodeError(t, w.Body.Bytes()))

	w = doJSON(f.router, http.MethodPost, "/auth/reset-password", "", `{"token":"inexistente","senha":"segredo1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_reset_token", decodeError(t, w.Body.Bytes()))
}

func TestMeWrapsUser(t *testing.T) {
	f := newAuthFixture(t)

	f.mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1 ORDER BY "users"."id" LIMIT \$2`).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(10, "Ana", "ana@gmail.com", "x", "11999990000", "cliente"))

	w := doJSON(f.router, http.MethodGet, "/auth/me", tokenFor(t, 10, "cliente"), "")
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		User struct {
			ID   uint   `json:"id"`
			Name string `json:"nome"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, uint(10), out.User.ID)
	assert.Equal(t, "Ana", out.User.Name)
	assert.NotContains(t, w.Body.String(), "password")
}
