package modules

import (
	"github.com/mozartiade/archive/modules/catalog"
	"github.com/mozartiade/archive/modules/chronicle"
	"github.com/mozartiade/archive/modules/core"
	"github.com/mozartiade/archive/pkg/application"
)

// BuiltInModules is the load order. Core goes first so later modules can
// resolve its services and the schema migrations sort correctly.
var BuiltInModules = []application.Module{
	core.NewModule(),
	catalog.NewModule(),
	chronicle.NewModule(),
}
