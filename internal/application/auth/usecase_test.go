package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/almacen-api/internal/application/auth"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/infrastructure/cache"
	"github.com/tu-usuario/almacen-api/internal/infrastructure/memory"
	pkgjwt "github.com/tu-usuario/almacen-api/pkg/jwt"
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

func newAuthUseCase(t *testing.T) (*auth.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	uc := auth.NewUseCase(
		memory.NewUserRepository(store),
		memory.NewAuditRepository(store),
		cache.NewTokenStore(),
		auth.JWTConfig{Secret: "clave-de-test", ExpMinutes: 60, Issuer: "almacen-test"},
		15*time.Minute,
		logger.Nop(),
	)
	return uc, store
}

func register(t *testing.T, uc *auth.UseCase) *entity.User {
	t.Helper()
	user, err := uc.Register(auth.RegisterInput{
		Name:     "Pedro Almacén",
		Email:    "pedro@almacen.test",
		Password: "secreto123",
	})
	require.NoError(t, err)
	return user
}

func TestRegister_HasheaPasswordConBcrypt(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	user := register(t, uc)

	assert.NotEqual(t, "secreto123", user.PasswordHash, "la contraseña nunca se guarda en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secreto123")))
	assert.Equal(t, entity.RoleAdmin, user.Role, "rol por defecto")
	assert.Equal(t, entity.UserStatusActive, user.Status)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	register(t, uc)

	_, err := uc.Register(auth.RegisterInput{
		Email:    "pedro@almacen.test",
		Password: "otroSecreto1",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_PasswordCorta(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	_, err := uc.Register(auth.RegisterInput{Email: "x@y.test", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_RolDesconocido(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	_, err := uc.Register(auth.RegisterInput{Email: "x@y.test", Password: "secreto123", Role: "bodeguero"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_EmiteJWTConClaims(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	user := register(t, uc)

	result, err := uc.Login("pedro@almacen.test", "secreto123")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	userID, role, err := pkgjwt.Parse("clave-de-test", result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	register(t, uc)

	_, err := uc.Login("pedro@almacen.test", "equivocada1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_EmailDesconocido(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	_, err := uc.Login("nadie@almacen.test", "secreto123")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_RegistraAuditoriaYLastLogin(t *testing.T) {
	uc, store := newAuthUseCase(t)
	user := register(t, uc)

	_, err := uc.Login("pedro@almacen.test", "secreto123")
	require.NoError(t, err)

	got, err := memory.NewUserRepository(store).GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)

	entries, err := memory.NewAuditRepository(store).ListByUser(user.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, entity.AuditActionLogin, entries[0].Action)
}

func TestPasswordReset_FlujoCompleto(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	register(t, uc)

	token, err := uc.RequestPasswordReset("pedro@almacen.test")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, uc.ConfirmPasswordReset(token, "nuevaClave99"))

	// La clave anterior deja de servir; la nueva entra.
	_, err = uc.Login("pedro@almacen.test", "secreto123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login("pedro@almacen.test", "nuevaClave99")
	assert.NoError(t, err)
}

func TestPasswordReset_TokenDeUnSoloUso(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	register(t, uc)

	token, err := uc.RequestPasswordReset("pedro@almacen.test")
	require.NoError(t, err)
	require.NoError(t, uc.ConfirmPasswordReset(token, "nuevaClave99"))

	err = uc.ConfirmPasswordReset(token, "otraClave100")
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "el token consumido no puede reutilizarse")
}

func TestPasswordReset_EmailDesconocido(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	_, err := uc.RequestPasswordReset("nadie@almacen.test")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestConfirmPasswordReset_TokenInvalido(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	err := uc.ConfirmPasswordReset("token-inventado", "nuevaClave99")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestConfirmPasswordReset_PasswordCorta(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	err := uc.ConfirmPasswordReset("da-igual", "corta")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
