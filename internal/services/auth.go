package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"campusnews/internal/logger"
	"campusnews/internal/metrics"
	"campusnews/internal/models"
	"campusnews/internal/repository"
	"campusnews/internal/utils"
	"campusnews/internal/utils/helpers"

	"go.uber.org/zap"
)

const duplicateUsernameMsg = "A user with that username already exists."

// Mailer ставит письмо в очередь фоновой отправки.
type Mailer interface {
	Enqueue(job EmailJob) bool
}

// Session — выданный access-токен.
type Session struct {
	User   *models.User
	Token  string
	Claims *models.TokenClaims
}

type AuthService struct {
	users    repository.UserRepo
	secret   string
	ttl      time.Duration
	mailer   Mailer
	siteName string
	now      func() time.Time
}

func NewAuthService(users repository.UserRepo, secret string, ttl time.Duration, mailer Mailer, siteName string) *AuthService {
	return &AuthService{
		users:    users,
		secret:   secret,
		ttl:      ttl,
		mailer:   mailer,
		siteName: siteName,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, form models.RegisterForm) (*Session, error) {
	log := logger.WithCtx(ctx)

	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	log.Info("Регистрация", zap.String("username", form.Username))

	if err := validateForm(form); err != nil {
		log.Warn("Валидация регистрации не пройдена", zap.Error(err))
		return nil, err
	}

	taken, err := s.users.UsernameTaken(ctx, form.Username)
	if err != nil {
		log.Error("Ошибка проверки username (repo)", zap.Error(err))
		return nil, err
	}
	if taken {
		return nil, fieldError("username", duplicateUsernameMsg)
	}

	hash, err := utils.HashPassword(form.Password1)
	if err != nil {
		log.Error("Ошибка хеширования пароля", zap.Error(err))
		return nil, err
	}

	u := &models.User{
		Username:     form.Username,
		Email:        form.Email,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fieldError("username", duplicateUsernameMsg)
		}
		log.Error("Ошибка создания пользователя (repo)", zap.Error(err))
		return nil, err
	}

	sess, err := s.issue(u)
	if err != nil {
		log.Error("Ошибка выпуска токена", zap.Int64("user_id", u.ID), zap.Error(err))
		return nil, err
	}

	if s.mailer != nil && u.Email != "" {
		name := u.FullName()
		if name == "" {
			name = u.Username
		}
		s.mailer.Enqueue(EmailJob{
			To:      []string{u.Email},
			Subject: "Welcome to " + s.siteName,
			Body:    helpers.BuildWelcomeHTML(s.siteName, name),
			IsHTML:  true,
		})
	}

	log.Info("Пользователь зарегистрирован", zap.Int64("user_id", u.ID))
	return sess, nil
}

// Login — неактивный, неизвестный пользователь и неверный пароль
// неразличимы для клиента.
func (s *AuthService) Login(ctx context.Context, form models.LoginForm) (*Session, error) {
	log := logger.WithCtx(ctx)

	form.Username = strings.TrimSpace(form.Username)
	if err := validateForm(form); err != nil {
		return nil, err
	}

	u, err := s.users.GetByUsername(ctx, form.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error("Ошибка получения пользователя (repo)", zap.Error(err))
		return nil, err
	}
	if u == nil || !u.IsActive || !utils.CheckPasswordHash(form.Password, u.PasswordHash) {
		metrics.RecordLogin(false)
		log.Warn("Неудачный вход", zap.String("username", form.Username))
		return nil, ErrInvalidCredentials
	}

	sess, err := s.issue(u)
	if err != nil {
		log.Error("Ошибка выпуска токена", zap.Int64("user_id", u.ID), zap.Error(err))
		return nil, err
	}
	metrics.RecordLogin(true)

	log.Info("Успешный вход", zap.Int64("user_id", u.ID), zap.String("role", u.Role()))
	return sess, nil
}

func (s *AuthService) issue(u *models.User) (*Session, error) {
	token, claims, err := utils.GenerateToken(s.secret, u.ID, u.Role(), s.ttl)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token, Claims: claims}, nil
}

// Logout отзывает токен до истечения его срока.
func (s *AuthService) Logout(ctx context.Context, claims *models.TokenClaims) error {
	if claims == nil || claims.TokenID == "" {
		return nil
	}
	expires := claims.ExpiresAt
	if expires.IsZero() {
		expires = s.now().Add(s.ttl)
	}
	if err := s.users.RevokeToken(ctx, claims.TokenID, expires); err != nil {
		logger.WithCtx(ctx).Error("Ошибка отзыва токена (repo)", zap.Error(err))
		return err
	}
	logger.WithCtx(ctx).Info("Токен отозван", zap.Int64("user_id", claims.UserID))
	return nil
}

// Authenticate проверяет токен и загружает пользователя из хранилища, чтобы
// смена флагов применялась сразу. Неактивный пользователь не аутентифицирован.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*models.User, *models.TokenClaims, error) {
	claims, err := utils.ParseToken(s.secret, raw)
	if err != nil {
		return nil, nil, ErrUnauthenticated
	}

	revoked, err := s.users.IsTokenRevoked(ctx, claims.TokenID)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка проверки отзыва токена (repo)", zap.Error(err))
		return nil, nil, err
	}
	if revoked {
		return nil, nil, ErrUnauthenticated
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUnauthenticated
		}
		logger.WithCtx(ctx).Error("Ошибка загрузки пользователя (repo)", zap.Error(err))
		return nil, nil, err
	}
	if !u.IsActive {
		return nil, nil, ErrUnauthenticated
	}
	return u, claims, nil
}

// PurgeRevoked удаляет из чёрного списка истёкшие токены.
func (s *AuthService) PurgeRevoked(ctx context.Context) (int64, error) {
	return s.users.PurgeRevokedTokens(ctx, s.now())
}
