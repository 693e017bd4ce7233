// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/authutil"
	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It applies
// the configured bcrypt cost and handler timeouts so every request path sees
// the same values.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.BcryptCost > 0 {
		authutil.ConfigureCost(appCfg.BcryptCost)
		logger.Info("bcrypt cost configured", zap.Int("cost", appCfg.BcryptCost))
	}

	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	if appCfg.WeatherAPIKey == "" {
		logger.Info("no weather API key configured; advisory routes disabled")
	}

	return nil
}
