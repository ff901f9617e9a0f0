package recurring

import (
	"github.com/smallbiznis/metrica/internal/recurring/service"
	"go.uber.org/fx"
)

var Module = fx.Module("recurring.service",
	fx.Provide(service.New),
)
