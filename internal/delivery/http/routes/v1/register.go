package v1

import (
	"log"

	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/delivery/http/handler"
	"folio/internal/delivery/http/middleware"
	"folio/internal/domain/assessment"
	"folio/internal/domain/user"
	"folio/internal/infrastructure/cache"
	"folio/internal/pkg/jwt"
	"folio/internal/repository"
	"folio/internal/usecase"
	useruc "folio/internal/usecase/user"
	"folio/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Deps carries the shared resources the route tree is built from.
type Deps struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Users user.Repository
	Cache *cache.Redis
	Store *assessment.Store
	Hub   *ws.Hub
}

func Register(r fiber.Router, deps Deps) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(
		deps.Config.JWT.AccessSecret,
		deps.Config.JWT.RefreshSecret,
		deps.Config.JWT.AccessExpiresIn,
		deps.Config.JWT.RefreshExpiresIn,
	)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	cacheTTL := cache.DefaultTTLFromEnv()
	notifier := ws.NewNotifier(deps.Hub)

	skillSetRepo := repository.NewPostgresSkillSetRepository(deps.DB)
	facetRepo := repository.NewPostgresFacetRepository(deps.DB)
	selfAssessmentRepo := repository.NewPostgresSelfAssessmentRepository(deps.DB)
	entryRepo := repository.NewPostgresEntryRepository(deps.DB)
	placementRepo := repository.NewPostgresPlacementRepository(deps.DB)
	engagementRepo := repository.NewPostgresEngagementRepository(deps.DB)
	tutoringRepo := repository.NewPostgresTutoringRepository(deps.DB)

	authUC := usecase.NewAuthUsecase(deps.Users, jwtSvc)
	userUC := useruc.NewService(deps.Users, tutoringRepo)
	assessmentUC := usecase.NewAssessmentUsecase(selfAssessmentRepo, skillSetRepo, deps.Store, deps.Cache, cacheTTL, notifier)
	skillSetUC := usecase.NewSkillSetUsecase(skillSetRepo, facetRepo, assessmentUC, deps.Cache, cacheTTL)
	entryUC := usecase.NewEntryUsecase(entryRepo, assessmentUC, notifier)
	placementUC := usecase.NewPlacementUsecase(placementRepo)
	reportUC := usecase.NewReportUsecase(engagementRepo, tutoringRepo, deps.Users, deps.Cache, cacheTTL)

	authHandler := handler.NewAuthHandler(authUC)
	userHandler := handler.NewUserHandler(userUC)
	skillSetHandler := handler.NewSkillSetHandler(skillSetUC)
	selfAssessmentHandler := handler.NewSelfAssessmentHandler(assessmentUC)
	entryHandler := handler.NewEntryHandler(entryUC)
	placementHandler := handler.NewPlacementHandler(placementUC)
	reportHandler := handler.NewReportHandler(reportUC)
	wsHandler := ws.NewHandler(deps.Hub, deps.Logger)

	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup)

	protected := r.Group("", authMw.Middleware())

	usersGroup := protected.Group("/users")
	userHandler.RegisterRoutes(usersGroup)

	skillSetHandler.RegisterRoutes(protected)
	selfAssessmentHandler.RegisterRoutes(protected)
	entryHandler.RegisterRoutes(protected)
	placementHandler.RegisterRoutes(protected)
	reportHandler.RegisterRoutes(protected)

	protected.Get("/events/ws", wsHandler.HandleEventsWS)
}
