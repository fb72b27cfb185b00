package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/Albaranes-api/docs"
	"github.com/jhoicas/Albaranes-api/internal/application/auth"
	"github.com/jhoicas/Albaranes-api/internal/application/deliverynote"
	"github.com/jhoicas/Albaranes-api/internal/application/ports"
	"github.com/jhoicas/Albaranes-api/internal/application/usecase"
	"github.com/jhoicas/Albaranes-api/internal/domain/repository"
	"github.com/jhoicas/Albaranes-api/internal/infrastructure/blob"
	"github.com/jhoicas/Albaranes-api/internal/infrastructure/cache"
	"github.com/jhoicas/Albaranes-api/internal/infrastructure/mail"
	"github.com/jhoicas/Albaranes-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Albaranes-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Albaranes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Albaranes-api/internal/infrastructure/slack"
	httpRouter "github.com/jhoicas/Albaranes-api/internal/interfaces/http"
	"github.com/jhoicas/Albaranes-api/pkg/config"
	"github.com/jhoicas/Albaranes-api/pkg/logger"
)

// repos repositorios y transacciones del driver elegido.
type repos struct {
	clients     repository.ClientRepository
	projects    repository.ProjectRepository
	notes       repository.DeliveryNoteRepository
	users       repository.UserRepository
	companies   repository.CompanyRepository
	invitations repository.InvitationRepository
	numbering   deliverynote.TxRunner
	accounts    auth.TxRunner
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("storage_driver", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	r := openRepos(ctx, cfg, log)
	defer r.close()

	blobs := openBlobStore(ctx, cfg, log)

	var mailer ports.Mailer = mail.NewLogMailer(log)
	if cfg.Mail.Enabled() {
		mailer = mail.NewSMTPMailer(cfg.Mail)
	}
	alerter := slack.NewWebhookAlerter(cfg.Slack.WebhookURL)

	var principalCache auth.PrincipalCache = auth.NopCache{}
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisPrincipalCache(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, se desactiva la caché de principales")
		} else {
			defer rc.Close()
			principalCache = rc
		}
	}

	authUC := auth.NewAuthUseCase(
		r.accounts, r.users, r.companies, r.invitations,
		blobs, mailer, principalCache,
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		log,
	)
	clientUC := usecase.NewClientUseCase(r.clients)
	projectUC := usecase.NewProjectUseCase(r.projects, r.clients)

	// PDF: representación del albarán con maroto
	renderer := infrapdf.NewMarotoRenderer()
	deliveryNoteUC := deliverynote.NewUseCase(
		r.numbering, r.notes, r.projects, r.clients, r.users, r.companies,
		renderer, blobs, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log, alerter))
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FileContent: []byte(docs.SwaggerInfo.ReadDoc()),
		Path:        "docs",
		Title:       "Albaranes API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ClientUC:       clientUC,
		ProjectUC:      projectUC,
		DeliveryNoteUC: deliveryNoteUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openRepos abre PostgreSQL (aplicando migraciones si DB_MIGRATE) o el almacén en memoria.
func openRepos(ctx context.Context, cfg *config.Config, log *logger.Logger) repos {
	if cfg.DB.Driver == "memory" {
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return repos{
			clients:     store.Clients(),
			projects:    store.Projects(),
			notes:       store.DeliveryNotes(),
			users:       store.Users(),
			companies:   store.Companies(),
			invitations: store.Invitations(),
			numbering:   store,
			accounts:    store,
			close:       func() {},
		}
	}

	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones de PostgreSQL")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	txRunner := postgres.NewTxRunner(pool)
	return repos{
		clients:     postgres.NewClientRepository(pool),
		projects:    postgres.NewProjectRepository(pool),
		notes:       postgres.NewDeliveryNoteRepository(pool),
		users:       postgres.NewUserRepository(pool),
		companies:   postgres.NewCompanyRepository(pool),
		invitations: postgres.NewInvitationRepository(pool),
		numbering:   txRunner,
		accounts:    txRunner,
		close:       pool.Close,
	}
}

// openBlobStore elige Pinata (IPFS) o S3 según STORAGE_DRIVER.
func openBlobStore(ctx context.Context, cfg *config.Config, log *logger.Logger) ports.BlobStore {
	if cfg.Storage.Driver == "s3" {
		store, err := blob.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente S3")
		}
		return store
	}
	return blob.NewPinataStore(cfg.Storage)
}
