package acquisition

import (
	"github.com/smallbiznis/metrica/internal/acquisition/service"
	"go.uber.org/fx"
)

var Module = fx.Module("acquisition.service",
	fx.Provide(service.New),
)
