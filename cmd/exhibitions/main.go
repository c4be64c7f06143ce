package main

import (
	"expostall/internal/exhibitions/handler"
	"expostall/internal/exhibitions/repository"
	"expostall/internal/exhibitions/service"
	"expostall/internal/exhibitions/validator"
	"expostall/pkg/app"
	"expostall/pkg/config"
)

const ServiceName = "exhibitions"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Exhibitions service")
	router := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		router,
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) *handler.Router {
	exhibitionValidator := validator.NewExhibitionValidator(cfg.Log)
	exhibitionRepo := repository.NewMongoExhibitionRepository(cfg)
	layoutRepo := repository.NewMongoLayoutRepository(cfg)
	stallTypeRepo := repository.NewMongoStallTypeRepository(cfg)

	exhibitionService := service.NewExhibitionService(
		exhibitionRepo,
		layoutRepo,
		exhibitionValidator,
		cfg,
		cfg.Log,
	)
	layoutService := service.NewLayoutService(
		layoutRepo,
		exhibitionRepo,
		stallTypeRepo,
		exhibitionValidator,
		cfg,
		cfg.Log,
	)
	stallTypeService := service.NewStallTypeService(
		stallTypeRepo,
		exhibitionValidator,
		cfg,
		cfg.Log,
	)

	cfg.Log.Info("Exhibition services initialized", "database", cfg.MongoDatabaseName)

	return handler.NewRouter(
		handler.NewExhibitionHandler(exhibitionService, layoutService, cfg.Log),
		handler.NewStallTypeHandler(stallTypeService, cfg.Log),
	)
}
