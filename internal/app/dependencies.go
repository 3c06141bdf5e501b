package app

import (
	"github.com/finwise/finwise/internal/auth"
	"github.com/finwise/finwise/internal/config"
	"github.com/finwise/finwise/internal/event_bus"
	"github.com/finwise/finwise/internal/utils"
	"github.com/finwise/finwise/pkg/education_plan"
	"github.com/finwise/finwise/pkg/family"
	"github.com/finwise/finwise/pkg/indicator"
	"github.com/finwise/finwise/pkg/user"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	UserService user.Service
	UserHandler *user.Handler

	Sessions    auth.SessionRegistry
	AuthService auth.Service
	AuthHandler *auth.Handler

	FamilyRepo    family.Repository
	FamilyService *family.ServiceImpl
	FamilyHandler *family.Handler

	EducationPlanRepo    education_plan.Repository
	EducationPlanService *education_plan.ServiceImpl
	EducationPlanHandler *education_plan.Handler

	IndicatorRepo     indicator.Repository
	IndicatorService  *indicator.ServiceImpl
	IndicatorRenderer *indicator.CsvRendererImpl
	IndicatorHandler  *indicator.Handler
}

// BuildDependencies initializes and wires all application services and handlers. rdb may be nil unless
// the redis session store is configured.
func BuildDependencies(db *pgxpool.Pool, rdb *redis.Client, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	// family subscribes to user registration, so it is built before anyone can register
	deps.FamilyRepo = family.NewRepository(db)
	deps.FamilyService = family.NewService(deps.FamilyRepo, deps.EventBus)
	deps.FamilyHandler = family.NewHandler(deps.FamilyService)

	deps.Sessions = newSessionRegistry(rdb, deps.Clock, cfg.Session)
	deps.AuthService = auth.NewService(deps.UserService, deps.Sessions, deps.EventBus)
	deps.AuthHandler = auth.NewHandler(deps.AuthService, cfg.Session)

	deps.EducationPlanRepo = education_plan.NewRepository(db)
	deps.EducationPlanService = education_plan.NewService(deps.EducationPlanRepo, deps.FamilyService, deps.Clock)
	deps.EducationPlanHandler = education_plan.NewHandler(deps.EducationPlanService)

	deps.IndicatorRepo = indicator.NewRepository(db)
	deps.IndicatorService = indicator.NewService(deps.IndicatorRepo)
	deps.IndicatorRenderer = indicator.NewCsvRenderer()
	deps.IndicatorHandler = indicator.NewHandler(deps.IndicatorService, deps.IndicatorRenderer)

	return deps
}

func newSessionRegistry(rdb *redis.Client, clock utils.Clock, cfg config.Session) auth.SessionRegistry {
	if cfg.Store == config.RedisSessionStore && rdb != nil {
		log.Info("Using redis session store")
		return auth.NewRedisSessionRegistry(rdb, clock, cfg.MaxAge)
	}
	log.Info("Using in-memory session store")
	return auth.NewMemorySessionRegistry(clock, cfg.MaxAge)
}
