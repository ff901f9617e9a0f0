package cohort

import (
	"github.com/smallbiznis/metrica/internal/cohort/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cohort.service",
	fx.Provide(service.New),
)
