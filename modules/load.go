package modules

import (
	"github.com/lumen-rp/cadhub/modules/approvals"
	"github.com/lumen-rp/cadhub/modules/business"
	"github.com/lumen-rp/cadhub/modules/citizens"
	"github.com/lumen-rp/cadhub/modules/core"
	"github.com/lumen-rp/cadhub/modules/dispatch"
	"github.com/lumen-rp/cadhub/modules/leo"
	"github.com/lumen-rp/cadhub/modules/logging"
	"github.com/lumen-rp/cadhub/pkg/application"
)

// BuiltInModules lists every module in registration order. Approvals goes
// first so the modules that open requests can look up its workflow service.
var BuiltInModules = []application.Module{
	approvals.NewModule(),
	core.NewModule(),
	citizens.NewModule(),
	leo.NewModule(),
	business.NewModule(),
	dispatch.NewModule(),
	logging.NewModule(),
}

// Load registers the given modules against the application.
func Load(app application.Application, mods ...application.Module) error {
	for _, m := range mods {
		if err := m.Register(app); err != nil {
			return err
		}
	}
	return nil
}
