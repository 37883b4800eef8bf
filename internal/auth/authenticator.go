package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elite-acai/pdv-auth/internal/models"
	"github.com/elite-acai/pdv-auth/internal/permissions"
	"github.com/elite-acai/pdv-auth/internal/security"
	"github.com/elite-acai/pdv-auth/internal/store"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Defaults for the break-glass operator.
const (
	DefaultPrivilegedName     = "Administrador"
	DefaultPrivilegedPassword = "elite2024"
)

// PrivilegedCredential configures the break-glass administrative login.
type PrivilegedCredential struct {
	Password string
	Name     string
}

// Authenticator turns operator credentials into a verified operator record.
type Authenticator struct {
	store      store.OperatorStore
	privileged PrivilegedCredential
	now        func() time.Time
	hash       func(string) (string, error)
}

// Option customizes an Authenticator.
type Option func(*Authenticator)

// WithClock overrides the time source used for last_login.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithPasswordHasher overrides how the bootstrap credential is stored.
func WithPasswordHasher(hash func(string) (string, error)) Option {
	return func(a *Authenticator) {
		if hash != nil {
			a.hash = hash
		}
	}
}

// New constructs an Authenticator. Empty credential fields fall back to the defaults.
func New(operators store.OperatorStore, privileged PrivilegedCredential, opts ...Option) *Authenticator {
	if privileged.Password == "" {
		privileged.Password = DefaultPrivilegedPassword
	}
	if strings.TrimSpace(privileged.Name) == "" {
		privileged.Name = DefaultPrivilegedName
	}
	a := &Authenticator{
		store:      operators,
		privileged: privileged,
		now:        func() time.Time { return time.Now().UTC() },
		hash:       security.HashPassword,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authenticate verifies code and password and returns the signed-in operator.
// The privileged path runs first; every other login requires an active operator
// whose code matches exactly.
func (a *Authenticator) Authenticate(ctx context.Context, code, password string) (*models.Operator, error) {
	trimmedCode := strings.TrimSpace(code)
	if trimmedCode == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingFields
	}

	if a.isPrivilegedLogin(trimmedCode, password) {
		return a.authenticatePrivileged(ctx)
	}

	op, err := a.store.FindByCode(ctx, trimmedCode, true)
	if err != nil {
		if errors.Is(err, store.ErrOperatorNotFound) {
			return nil, ErrUnknownOperator
		}
		log.WithError(err).WithField("code", trimmedCode).Error("operator lookup failed")
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	if !security.VerifyPassword(op.PasswordHash, password) {
		log.WithField("code", trimmedCode).Warn("operator login rejected: wrong password")
		return nil, ErrWrongPassword
	}

	a.touchLastLogin(ctx, op)
	log.WithField("code", op.Code).Info("operator signed in")
	return op, nil
}

// BootstrapPrivileged returns the privileged operator, creating it when absent.
func (a *Authenticator) BootstrapPrivileged(ctx context.Context) (*models.Operator, error) {
	op, err := a.store.FindByCode(ctx, models.PrivilegedCode, false)
	if err == nil {
		return op, nil
	}
	if !errors.Is(err, store.ErrOperatorNotFound) {
		log.WithError(err).Error("privileged operator lookup failed")
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return a.createPrivileged(ctx)
}

func (a *Authenticator) isPrivilegedLogin(code, password string) bool {
	return strings.ToUpper(code) == models.PrivilegedCode && security.SecretEqual(password, a.privileged.Password)
}

func (a *Authenticator) authenticatePrivileged(ctx context.Context) (*models.Operator, error) {
	op, err := a.store.FindByCode(ctx, models.PrivilegedCode, false)
	switch {
	case err == nil:
		a.touchLastLogin(ctx, op)
		log.Info("privileged operator signed in")
		return op, nil
	case errors.Is(err, store.ErrOperatorNotFound):
		log.Warn("privileged operator missing, creating it")
		return a.createPrivileged(ctx)
	default:
		log.WithError(err).Error("privileged operator lookup failed")
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
}

// createPrivileged inserts the privileged operator with the full vocabulary granted.
// When a concurrent login created it first, the insert hits the unique code and the
// winner's record is returned instead.
func (a *Authenticator) createPrivileged(ctx context.Context) (*models.Operator, error) {
	hash, errHash := a.hash(a.privileged.Password)
	if errHash != nil {
		return nil, fmt.Errorf("%w: hash credential: %w", ErrBootstrapFailed, errHash)
	}
	grants, errMarshal := permissions.MarshalPermissions(permissions.Full())
	if errMarshal != nil {
		return nil, fmt.Errorf("%w: %w", ErrBootstrapFailed, errMarshal)
	}

	op := &models.Operator{
		Name:         a.privileged.Name,
		Code:         models.PrivilegedCode,
		PasswordHash: hash,
		IsActive:     true,
		Permissions:  datatypes.JSON(grants),
	}
	errCreate := a.store.Create(ctx, op)
	if errCreate == nil {
		log.WithField("operator_id", op.ID).Info("privileged operator created")
		return op, nil
	}

	existing, errFind := a.store.FindByCode(ctx, models.PrivilegedCode, false)
	if errFind == nil {
		log.WithError(errCreate).Warn("privileged operator created concurrently, using existing record")
		return existing, nil
	}
	log.WithError(errCreate).Error("privileged operator bootstrap failed")
	return nil, fmt.Errorf("%w: %w", ErrBootstrapFailed, errCreate)
}

// touchLastLogin records the login time. A failure is logged and does not fail the login.
func (a *Authenticator) touchLastLogin(ctx context.Context, op *models.Operator) {
	at := a.now().UTC()
	if errTouch := a.store.TouchLastLogin(ctx, op.ID, at); errTouch != nil {
		log.WithError(errTouch).WithField("operator_id", op.ID).Warn("update operator last login failed")
		return
	}
	if op.LastLogin == nil || op.LastLogin.Before(at) {
		op.LastLogin = &at
	}
}
