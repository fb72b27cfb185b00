package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Albaranes-api/internal/application/archive"
	"github.com/jhoicas/Albaranes-api/internal/application/dto"
	"github.com/jhoicas/Albaranes-api/internal/application/ports"
	"github.com/jhoicas/Albaranes-api/internal/domain"
	"github.com/jhoicas/Albaranes-api/internal/domain/entity"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
	"github.com/jhoicas/Albaranes-api/internal/domain/scope"
	"github.com/jhoicas/Albaranes-api/pkg/jwt"
	"github.com/jhoicas/Albaranes-api/pkg/logger"
)

const (
	verificationAttempts = 3
	verificationTTL      = 24 * time.Hour
	resetTTL             = time.Hour
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de cuenta: registro, verificación, login, perfil, recuperación de
// contraseña, compañía e invitaciones.
type AuthUseCase struct {
	txRunner    TxRunner
	users       repository.UserRepository
	companies   repository.CompanyRepository
	invitations repository.InvitationRepository
	blobs       ports.BlobStore
	mailer      ports.Mailer
	cache       PrincipalCache
	jwtCfg      JWTConfig
	log         *logger.Logger
	now         func() time.Time
	bcryptCost  int
}

// NewAuthUseCase construye el caso de uso de auth. cache puede ser nil.
func NewAuthUseCase(
	txRunner TxRunner,
	users repository.UserRepository,
	companies repository.CompanyRepository,
	invitations repository.InvitationRepository,
	blobs ports.BlobStore,
	mailer ports.Mailer,
	cache PrincipalCache,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *AuthUseCase {
	if cache == nil {
		cache = NopCache{}
	}
	return &AuthUseCase{
		txRunner:    txRunner,
		users:       users,
		companies:   companies,
		invitations: invitations,
		blobs:       blobs,
		mailer:      mailer,
		cache:       cache,
		jwtCfg:      jwtCfg,
		log:         log.Named("auth"),
		now:         time.Now,
		bcryptCost:  bcrypt.DefaultCost,
	}
}

// WithBcryptCost ajusta el coste de bcrypt (tests).
func (uc *AuthUseCase) WithBcryptCost(cost int) *AuthUseCase {
	uc.bcryptCost = cost
	return uc
}

// Register crea un usuario sin verificar, le envía el código por email y devuelve su token.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(in.Email)
	existing, err := uc.users.GetByEmail(ctx, email, scope.All)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	code, err := newCode()
	if err != nil {
		return nil, err
	}

	now := uc.now()
	expires := now.Add(verificationTTL)
	user := &entity.User{
		ID:                    uuid.New().String(),
		FirstName:             normalizeName(in.FirstName),
		LastName:              normalizeName(in.LastName),
		Email:                 email,
		PasswordHash:          string(hash),
		Role:                  entity.RoleUser,
		VerificationCode:      code,
		VerificationAttempts:  verificationAttempts,
		VerificationExpiresAt: &expires,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}

	msg, err := verificationEmail(user.Email, user.FirstName, code)
	uc.send(ctx, msg, err, "verification")

	return uc.authResponse(ctx, user)
}

// VerifyEmail valida el código enviado al registrarse. Cada fallo consume un intento.
func (uc *AuthUseCase) VerifyEmail(ctx context.Context, p scope.Principal, in dto.VerifyEmailRequest) (*dto.UserResponse, error) {
	user, err := uc.activeUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if user.Validated {
		return uc.userResponse(ctx, user)
	}
	if user.VerificationAttempts <= 0 {
		return nil, domain.ErrVerificationAttemptsSpent
	}
	if user.VerificationExpiresAt != nil && uc.now().After(*user.VerificationExpiresAt) {
		return nil, domain.ErrInvalidVerificationCode
	}
	if !sameCode(user.VerificationCode, in.Code) {
		user.VerificationAttempts--
		user.UpdatedAt = uc.now()
		if err := uc.users.Update(ctx, user); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidVerificationCode
	}

	user.Validated = true
	user.VerificationCode = ""
	user.VerificationExpiresAt = nil
	user.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, user.ID)
	return uc.userResponse(ctx, user)
}

// Login verifica email/password de un usuario activo y verificado y devuelve un token.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(in.Email), scope.Active)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Validated {
		return nil, domain.ErrEmailNotVerified
	}
	return uc.authResponse(ctx, user)
}

// Me devuelve el usuario del principal con su compañía.
func (uc *AuthUseCase) Me(ctx context.Context, p scope.Principal) (*dto.UserResponse, error) {
	user, err := uc.activeUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return uc.userResponse(ctx, user)
}

// UpdateMe modifica los datos personales permitidos.
func (uc *AuthUseCase) UpdateMe(ctx context.Context, p scope.Principal, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.activeUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		name := normalizeName(*in.FirstName)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		user.FirstName = name
	}
	if in.LastName != nil {
		user.LastName = normalizeName(*in.LastName)
	}
	user.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, user.ID)
	return uc.userResponse(ctx, user)
}

// UploadLogo sube la imagen al almacén de blobs y la guarda como foto de perfil.
func (uc *AuthUseCase) UploadLogo(ctx context.Context, p scope.Principal, filename, contentType string, data []byte) (*dto.UserResponse, error) {
	if len(data) == 0 {
		return nil, domain.ErrNoFileProvided
	}
	user, err := uc.activeUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	cid, err := uc.blobs.Put(ctx, "logo_"+user.ID+"_"+filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	user.ProfilePicture = uc.blobs.URL(cid)
	user.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return uc.userResponse(ctx, user)
}

// DeleteAccount archiva la cuenta del principal, o la elimina definitivamente si hard.
func (uc *AuthUseCase) DeleteAccount(ctx context.Context, p scope.Principal, hard bool) error {
	user, err := uc.activeUser(ctx, p.UserID)
	if err != nil {
		return err
	}
	if err := archive.Remove(ctx, uc.users, user.ID, hard, uc.now()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	uc.cache.Invalidate(ctx, user.ID)
	return nil
}

// RestoreAccount reactiva una cuenta archivada comprobando sus credenciales.
func (uc *AuthUseCase) RestoreAccount(ctx context.Context, in dto.RestoreAccountRequest) (*dto.AuthResponse, error) {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(in.Email), scope.All)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := archive.Restore(ctx, uc.users, user.ID, user.Deleted); err != nil {
		return nil, err
	}
	user.Deleted = false
	user.DeletedAt = nil
	uc.cache.Invalidate(ctx, user.ID)
	return uc.authResponse(ctx, user)
}

// ForgotPassword genera un código de recuperación de 1 hora y lo envía por email.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) error {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(in.Email), scope.Active)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	code, err := newCode()
	if err != nil {
		return err
	}
	expires := uc.now().Add(resetTTL)
	user.ResetToken = code
	user.ResetExpiresAt = &expires
	user.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, user); err != nil {
		return err
	}

	msg, err := resetEmail(user.Email, user.FirstName, code)
	uc.send(ctx, msg, err, "password_reset")
	return nil
}

// ResetPassword fija una nueva contraseña con un código de recuperación vigente.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	user, err := uc.users.GetByResetToken(ctx, normalizeEmail(in.Email), in.Token, uc.now())
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrInvalidResetToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.ResetToken = ""
	user.ResetExpiresAt = nil
	user.UpdatedAt = uc.now()
	return uc.users.Update(ctx, user)
}

// OnboardCompany crea la compañía del usuario y lo vincula como fundador. Si ya tiene una,
// solo el fundador puede actualizar sus datos.
func (uc *AuthUseCase) OnboardCompany(ctx context.Context, p scope.Principal, in dto.CompanyOnboardingRequest) (*dto.UserResponse, error) {
	var (
		user    *entity.User
		company *entity.Company
	)
	err := uc.txRunner.RunAuth(ctx, func(users repository.UserRepository, companies repository.CompanyRepository, _ repository.InvitationRepository) error {
		u, err := users.GetByID(ctx, p.UserID, scope.Active)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserNotFound
		}
		user = u
		now := uc.now()

		if user.CompanyID != "" {
			c, err := companies.GetByID(ctx, user.CompanyID)
			if err != nil {
				return err
			}
			if c == nil {
				return domain.ErrCompanyNotFound
			}
			if c.FounderID != user.ID {
				return domain.ErrForbidden
			}
			c.Name = in.Name
			c.CIF = in.CIF
			c.Address = in.Address.Entity()
			c.UpdatedAt = now
			company = c
			return companies.Update(ctx, c)
		}

		company = &entity.Company{
			ID:        uuid.New().String(),
			Name:      in.Name,
			CIF:       in.CIF,
			Address:   in.Address.Entity(),
			FounderID: user.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := companies.Create(ctx, company); err != nil {
			return err
		}
		user.CompanyID = company.ID
		user.Role = entity.RoleAdmin
		user.UpdatedAt = now
		return users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, user.ID)
	out := dto.UserFromEntity(user, company)
	return &out, nil
}

// ResolvePrincipal carga el principal vigente de un usuario activo (con caché).
// Devuelve domain.ErrUnauthorized si el usuario ya no existe o está archivado.
func (uc *AuthUseCase) ResolvePrincipal(ctx context.Context, userID string) (scope.Principal, error) {
	if p, ok := uc.cache.Get(ctx, userID); ok {
		return *p, nil
	}
	user, err := uc.users.GetByID(ctx, userID, scope.Active)
	if err != nil {
		return scope.Principal{}, err
	}
	if user == nil {
		return scope.Principal{}, domain.ErrUnauthorized
	}
	p := scope.Principal{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		Verified: user.Validated,
	}
	if user.CompanyID != "" {
		company, err := uc.companies.GetByID(ctx, user.CompanyID)
		if err != nil {
			return scope.Principal{}, err
		}
		if company != nil {
			p.Company = &scope.CompanyRef{ID: company.ID, Name: company.Name, CIF: company.CIF}
		}
	}
	uc.cache.Set(ctx, p)
	return p, nil
}

func (uc *AuthUseCase) activeUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.users.GetByID(ctx, id, scope.Active)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (uc *AuthUseCase) userResponse(ctx context.Context, user *entity.User) (*dto.UserResponse, error) {
	var company *entity.Company
	if user.CompanyID != "" {
		c, err := uc.companies.GetByID(ctx, user.CompanyID)
		if err != nil {
			return nil, err
		}
		company = c
	}
	out := dto.UserFromEntity(user, company)
	return &out, nil
}

func (uc *AuthUseCase) authResponse(ctx context.Context, user *entity.User) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, user.ID, time.Duration(uc.jwtCfg.ExpMinutes)*time.Minute)
	if err != nil {
		return nil, err
	}
	resp, err := uc.userResponse(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: *resp}, nil
}

// send envía un email sin bloquear la operación principal: los fallos solo se registran.
func (uc *AuthUseCase) send(ctx context.Context, msg ports.Email, buildErr error, kind string) {
	err := buildErr
	if err == nil {
		err = uc.mailer.Send(ctx, msg)
	}
	if err != nil {
		uc.log.Warn().Err(err).Str("email_kind", kind).Str("to", msg.To).Msg("no se pudo enviar el email")
	}
}
