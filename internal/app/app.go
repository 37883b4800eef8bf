package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elite-acai/pdv-auth/internal/auth"
	"github.com/elite-acai/pdv-auth/internal/config"
	"github.com/elite-acai/pdv-auth/internal/db"
	"github.com/elite-acai/pdv-auth/internal/http/api/pdv"
	"github.com/elite-acai/pdv-auth/internal/logging"
	"github.com/elite-acai/pdv-auth/internal/store"
	"github.com/elite-acai/pdv-auth/internal/store2"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg config.AppConfig) error {
	appCfg, conn, closeLog, err := prepare(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if cfg.BootstrapAdmin {
		return bootstrapAdmin(ctx, appCfg, conn)
	}
	return nil
}

// RunServer boots the PDV authentication API and blocks until ctx is done.
func RunServer(ctx context.Context, cfg config.AppConfig) error {
	appCfg, conn, closeLog, err := prepare(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if cfg.BootstrapAdmin {
		if errBootstrap := bootstrapAdmin(ctx, appCfg, conn); errBootstrap != nil {
			return errBootstrap
		}
	}

	jwtCfg := appCfg.JWT
	if strings.TrimSpace(jwtCfg.Secret) == "" {
		secret, errSecret := randomSecret()
		if errSecret != nil {
			return errSecret
		}
		jwtCfg.Secret = secret
		log.Warn("jwt.secret is empty, using a per-process secret; tokens will not survive restarts")
	}

	operators := store.NewGormOperatorStore(conn)
	opts := pdv.Options{
		Authenticator: newAuthenticator(appCfg, operators),
		Operators:     operators,
		JWT:           jwtCfg,
		Store2Header:  appCfg.Store2.Header,

		AnonymousConsole: appCfg.Server.AnonymousConsole,
	}
	if opts.AnonymousConsole {
		log.Warn("server.anonymous-console is on; permission-gated routes accept callers with no identity")
	}
	if addr := strings.TrimSpace(appCfg.Store2.RedisAddr); addr != "" {
		loader := store2.NewRedisLoader(store2.RedisOptions{
			Addr:      addr,
			Password:  appCfg.Store2.RedisPassword,
			DB:        appCfg.Store2.RedisDB,
			KeyPrefix: appCfg.Store2.KeyPrefix,
		})
		defer func() {
			if errClose := loader.Close(); errClose != nil {
				log.WithError(errClose).Warn("close store2 redis client")
			}
		}()
		opts.Store2 = loader
		log.WithField("addr", addr).Info("store2 session lookup enabled")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	pdv.RegisterPDVRoutes(engine, opts)

	srv := &http.Server{
		Addr:              appCfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("pdv auth server listening")
		if errListen := srv.ListenAndServe(); errListen != nil && !errors.Is(errListen, http.ErrServerClosed) {
			errCh <- errListen
		}
		close(errCh)
	}()

	select {
	case errListen := <-errCh:
		return errListen
	case <-ctx.Done():
	}

	log.Info("shutting down pdv auth server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
		return fmt.Errorf("shutdown server: %w", errShutdown)
	}
	return nil
}

// prepare loads configuration, configures logging and opens a migrated database.
func prepare(cfg config.AppConfig) (*config.Config, *gorm.DB, func(), error) {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	appCfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	closer, err := logging.Setup(appCfg.Logging)
	if err != nil {
		return nil, nil, nil, err
	}
	closeLog := func() {
		if errClose := closer.Close(); errClose != nil {
			log.WithError(errClose).Warn("close log file")
		}
	}

	if appCfg.UsesDefaultPrivilegedPassword() {
		log.Warn("privileged.password is the built-in default; set PDV_ADMIN_PASSWORD in production")
	}

	conn, err := db.Open(appCfg.Database.DSN)
	if err != nil {
		closeLog()
		return nil, nil, nil, err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		closeLog()
		return nil, nil, nil, errMigrate
	}
	log.WithField("dialect", db.DialectName(conn)).Info("operator store ready")
	return appCfg, conn, closeLog, nil
}

func newAuthenticator(appCfg *config.Config, operators store.OperatorStore) *auth.Authenticator {
	return auth.New(operators, auth.PrivilegedCredential{
		Password: appCfg.Privileged.Password,
		Name:     appCfg.Privileged.Name,
	})
}

func bootstrapAdmin(ctx context.Context, appCfg *config.Config, conn *gorm.DB) error {
	op, err := newAuthenticator(appCfg, store.NewGormOperatorStore(conn)).BootstrapPrivileged(ctx)
	if err != nil {
		return err
	}
	log.WithField("operator_id", op.ID).Info("privileged operator ready")
	return nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate jwt secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
