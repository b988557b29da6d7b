package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
	"github.com/tu-usuario/almacen-api/pkg/jwt"
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// ResetTokenStore almacén con TTL para tokens de reseteo (un solo uso).
type ResetTokenStore interface {
	Put(token, userID string, ttl time.Duration)
	Consume(token string) (userID string, ok bool)
}

// UseCase casos de uso de autenticación: registro, login y recuperación de
// contraseña con tokens expirables.
type UseCase struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	tokens    ResetTokenStore
	jwtCfg    JWTConfig
	resetTTL  time.Duration
	log       *logger.Logger
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	tokens ResetTokenStore,
	jwtCfg JWTConfig,
	resetTTL time.Duration,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		tokens:    tokens,
		jwtCfg:    jwtCfg,
		resetTTL:  resetTTL,
		log:       log.Component("auth"),
	}
}

// RegisterInput campos para crear un usuario.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register crea un usuario con password bcrypt. Email duplicado ->
// ErrEmailAlreadyExists.
func (uc *UseCase) Register(in RegisterInput) (*entity.User, error) {
	if in.Email == "" || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	if existing, _ := uc.userRepo.FindByEmail(in.Email); existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := in.Name
	if name == "" {
		name = in.Email
	}
	role := in.Role
	if role == "" {
		role = entity.RoleAdmin
	}
	if role != entity.RoleAdmin && role != entity.RoleSuperAdmin {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// LoginResult token emitido más el usuario autenticado.
type LoginResult struct {
	Token string
	User  *entity.User
}

// Login verifica email/password, actualiza last_login, audita y emite JWT.
func (uc *UseCase) Login(email, password string) (*LoginResult, error) {
	user, err := uc.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := uc.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("actualizar last_login")
	}
	entry := &entity.AuditEntry{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		Action:     entity.AuditActionLogin,
		EntityType: "user",
		EntityID:   user.ID,
		CreatedAt:  now,
	}
	if err := uc.auditRepo.Create(entry); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("auditoría de login")
	}
	return &LoginResult{Token: token, User: user}, nil
}

// Profile devuelve el usuario autenticado.
func (uc *UseCase) Profile(userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// RequestPasswordReset emite un token de reseteo con TTL. Devuelve el token
// (en producción se enviaría por correo; aquí lo consume el handler).
// Si el email no existe no revela nada: retorna ErrUserNotFound al caller
// interno y el handler responde igual en ambos casos.
func (uc *UseCase) RequestPasswordReset(email string) (string, error) {
	user, err := uc.userRepo.FindByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.ErrUserNotFound
	}
	token := uuid.New().String()
	uc.tokens.Put(token, user.ID, uc.resetTTL)
	return token, nil
}

// ConfirmPasswordReset valida el token (un solo uso, expirable) y fija la
// nueva contraseña.
func (uc *UseCase) ConfirmPasswordReset(token, newPassword string) error {
	if len(newPassword) < 8 {
		return domain.ErrInvalidInput
	}
	userID, ok := uc.tokens.Consume(token)
	if !ok {
		return domain.ErrUnauthorized
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(userID, string(hash))
}
