package attribution

import (
	"github.com/smallbiznis/metrica/internal/attribution/service"
	"go.uber.org/fx"
)

var Module = fx.Module("attribution.service",
	fx.Provide(service.New),
)
