package chronicle

import (
	"embed"

	"github.com/mozartiade/archive/modules/chronicle/infrastructure/persistence"
	"github.com/mozartiade/archive/modules/chronicle/presentation/controllers"
	"github.com/mozartiade/archive/modules/chronicle/services"
	"github.com/mozartiade/archive/pkg/application"
	"github.com/mozartiade/archive/pkg/configuration"
	"github.com/mozartiade/archive/pkg/ordering"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

// Module wires the life chronicle.
type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "chronicle"
}

func (m *Module) Register(app application.Application) error {
	policy, err := ordering.ParsePolicy(configuration.Use().Ordering.BoundsPolicy)
	if err != nil {
		return err
	}
	app.Migrations().RegisterSchema(&migrationFiles)

	eventRepo := persistence.NewEventRepository()

	app.RegisterServices(
		services.NewEventService(eventRepo, app.EventPublisher(), ordering.NewGuard(), policy),
	)
	app.RegisterControllers(
		controllers.NewChronicleController(app),
		controllers.NewAdminChronicleController(app),
	)
	return nil
}
