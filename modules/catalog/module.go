package catalog

import (
	"embed"

	"github.com/mozartiade/archive/modules/catalog/infrastructure/persistence"
	"github.com/mozartiade/archive/modules/catalog/presentation/controllers"
	"github.com/mozartiade/archive/modules/catalog/services"
	"github.com/mozartiade/archive/pkg/application"
	"github.com/mozartiade/archive/pkg/configuration"
	"github.com/mozartiade/archive/pkg/ordering"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

// Module wires the work catalog: works, movements, related links and likes.
type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "catalog"
}

func (m *Module) Register(app application.Application) error {
	policy, err := ordering.ParsePolicy(configuration.Use().Ordering.BoundsPolicy)
	if err != nil {
		return err
	}
	app.Migrations().RegisterSchema(&migrationFiles)

	workRepo := persistence.NewWorkRepository()
	movementRepo := persistence.NewMovementRepository()
	linkRepo := persistence.NewRelatedLinkRepository()
	likeRepo := persistence.NewLikeRepository()

	app.RegisterServices(
		services.NewWorkService(workRepo, app.EventPublisher(), ordering.NewGuard(), policy),
		services.NewMovementService(movementRepo, workRepo),
		services.NewRelatedLinkService(linkRepo, workRepo),
		services.NewLikeService(likeRepo, workRepo),
	)
	app.RegisterControllers(
		controllers.NewWorksController(app),
		controllers.NewAdminWorksController(app),
		controllers.NewLikesController(app),
	)
	return nil
}
