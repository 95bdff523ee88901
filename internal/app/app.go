package app

import (
	"github.com/shametoflame/ministry/internal/catalog"
	"github.com/shametoflame/ministry/internal/config"
	"github.com/shametoflame/ministry/internal/db"
	"github.com/shametoflame/ministry/internal/repository"
	"github.com/shametoflame/ministry/internal/service"
)

type App struct {
	Cfg               *config.Config
	Store             *db.Store
	Catalog           *catalog.Catalog
	ScriptureService  *service.ScriptureService
	ProgressService   *service.ProgressService
	MessageService    *service.MessageService
	EmailService      *service.EmailService
	VerseOfDayService *service.VerseOfDayService
	AdminService      *service.AdminService
}

func New(cfg *config.Config) (*App, error) {
	// The store degrades rather than fails: a broken database serves empty
	// reads so the catalog and scripture proxy stay up
	store := db.Open(cfg.DBDriver, cfg.DBConnection)

	// Repositories
	planRepository := repository.NewPlanRepository(store)
	progressRepository := repository.NewProgressRepository(store)
	currentPlanRepository := repository.NewCurrentPlanRepository(store)
	savedPlanRepository := repository.NewSavedPlanRepository(store)
	scriptureRepository := repository.NewScriptureRepository(store)
	messageRepository := repository.NewMessageRepository(store)
	subscriberRepository := repository.NewSubscriberRepository(store)
	loginCodeRepository := repository.NewLoginCodeRepository(store)

	// Services
	cat := catalog.New(cfg.ContentPath)
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.ResendAudienceID,
		cfg.AppURL,
		cfg.AppName,
		cfg.AdminEmail,
		cfg.IsDevelopment(),
	)

	cipher, err := service.NewMessageCipher(cfg.MessageKeyB64)
	if err != nil {
		return nil, err
	}

	scriptureService := service.NewScriptureService(scriptureRepository, cfg)
	progressService := service.NewProgressService(
		planRepository,
		progressRepository,
		currentPlanRepository,
		savedPlanRepository,
		cat,
	)
	messageService := service.NewMessageService(messageRepository, cipher, emailService)
	verseOfDayService := service.NewVerseOfDayService(scriptureService, subscriberRepository, emailService)
	adminService := service.NewAdminService(loginCodeRepository, emailService, cfg)

	return &App{
		Cfg:               cfg,
		Store:             store,
		Catalog:           cat,
		ScriptureService:  scriptureService,
		ProgressService:   progressService,
		MessageService:    messageService,
		EmailService:      emailService,
		VerseOfDayService: verseOfDayService,
		AdminService:      adminService,
	}, nil
}

func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
