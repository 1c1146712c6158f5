package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"boletamaster/internal/clients"
	"boletamaster/internal/organizers"
	"boletamaster/internal/shared/config"
	"boletamaster/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc        Service
	repo       Repository
	clients    clients.Service
	organizers organizers.Service
	cfg        *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{JWT: config.JWTConfig{
		Secret:           "auth-test-secret",
		JWTExpiresIn:     time.Minute,
		RefreshExpiresIn: time.Hour,
	}}
	repo := NewRepository(nil)
	clientSvc := clients.NewService(clients.Deps{Repo: clients.NewRepository()})
	organizerSvc := organizers.NewService(organizers.Deps{Repo: organizers.NewRepository()})
	return &fixture{
		svc:        NewService(repo, NewProfileAdapter(clientSvc, organizerSvc), cfg),
		repo:       repo,
		clients:    clientSvc,
		organizers: organizerSvc,
		cfg:        cfg,
	}
}

func TestRegisterProvisionsClient(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	resp, err := f.svc.Register(ctx, &RegisterRequest{Name: "Ana", Email: "Ana@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, string(users.RoleClient), resp.User.Role)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)

	id := uuid.MustParse(resp.User.ID)
	client, err := f.clients.GetClient(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", client.Login())

	claims, err := f.svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestRegisterProvisionsOrganizer(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	resp, err := f.svc.Register(ctx, &RegisterRequest{
		Name: "Luis", Organization: "Teatro Colon", Email: "luis@example.com", Password: "secret1", Role: "organizer",
	})
	require.NoError(t, err)
	organizer, err := f.organizers.GetOrganizer(ctx, uuid.MustParse(resp.User.ID))
	require.NoError(t, err)
	assert.Equal(t, "Teatro Colon", organizer.Organization())
}

func TestRegisterRejections(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	_, err := f.svc.Register(ctx, &RegisterRequest{Name: "Eve", Email: "eve@example.com", Password: "secret1", Role: "ADMIN"})
	assert.ErrorIs(t, err, ErrRoleNotAllowed)

	_, err = f.svc.Register(ctx, &RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, &RegisterRequest{Name: "Bob", Email: "BOB@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginRefreshAndChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	reg, err := f.svc.Register(ctx, &RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := f.svc.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.svc.RefreshToken(ctx, login.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	pair, err := f.svc.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	err = f.svc.ChangePassword(ctx, reg.User.ID, &ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "secret2"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	require.NoError(t, f.svc.ChangePassword(ctx, reg.User.ID, &ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "secret2"}))
	_, err = f.svc.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "secret2"})
	assert.NoError(t, err)
}

func TestLoginRestoresMissingProfile(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	// account persisted from an earlier run, profile store is empty
	user, err := f.svc.(*service).createUser(ctx, "Ana", "", "ana@example.com", "secret1", users.RoleClient)
	require.NoError(t, err)
	_, err = f.clients.GetClient(ctx, user.ID)
	require.Error(t, err)

	_, err = f.svc.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = f.clients.GetClient(ctx, user.ID)
	assert.NoError(t, err)
}

func TestBootstrapAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	require.NoError(t, f.svc.BootstrapAdmin(ctx, "admin@example.com", ""))
	exists, err := f.repo.EmailExists(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, f.svc.BootstrapAdmin(ctx, "admin@example.com", "admin-pass"))
	require.NoError(t, f.svc.BootstrapAdmin(ctx, "admin@example.com", "admin-pass"))

	login, err := f.svc.Login(ctx, &LoginRequest{Email: "admin@example.com", Password: "admin-pass"})
	require.NoError(t, err)
	assert.Equal(t, string(users.RoleAdmin), login.User.Role)
}

func TestAuthRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	engine := gin.New()
	SetupAuthRoutes(engine.Group("/api/v1"), NewController(f.svc), f.cfg)

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec
	}

	rec := post("/api/v1/auth/register", `{"name":"Ana","email":"ana@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = post("/api/v1/auth/register", `{"name":"Ana","email":"ana@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = post("/api/v1/auth/register", `{"name":"A","email":"bad","password":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = post("/api/v1/auth/login", `{"email":"ana@example.com","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
