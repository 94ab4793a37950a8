package core

import (
	"embed"

	"github.com/mozartiade/archive/modules/core/infrastructure/persistence"
	"github.com/mozartiade/archive/modules/core/presentation/controllers"
	"github.com/mozartiade/archive/modules/core/services"
	"github.com/mozartiade/archive/pkg/application"
	"github.com/mozartiade/archive/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

// Module wires accounts and authentication: admin bearer tokens and
// end-user sessions.
type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "core"
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()
	app.Migrations().RegisterSchema(&migrationFiles)

	adminRepo := persistence.NewAdminRepository()
	userRepo := persistence.NewUserRepository()
	sessionRepo := persistence.NewSessionRepository()

	app.RegisterServices(
		services.NewAuthService(adminRepo, conf.AdminToken),
		services.NewAdminService(adminRepo, app.EventPublisher()),
		services.NewUserService(userRepo, sessionRepo, app.EventPublisher(), conf.SessionDuration),
	)
	app.RegisterControllers(
		controllers.NewAuthController(app),
		controllers.NewAdminAuthController(app),
		controllers.NewAdminsController(app),
	)
	return nil
}
