package lifetime

import (
	"github.com/smallbiznis/metrica/internal/lifetime/service"
	"go.uber.org/fx"
)

var Module = fx.Module("lifetime.service",
	fx.Provide(service.New),
)
