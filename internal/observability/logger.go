package observability

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/devkit/internal/logging"
)

// InitLogger installs the runtime logger and returns a child tagged with app.
func InitLogger(app string) zerolog.Logger {
	logging.ConfigureRuntime()
	return log.Logger.With().Str("app", app).Logger()
}
