package imaging

import (
	"github.com/rs/zerolog"

	"github.com/ironsheep/tryon-mcp/internal/logging"
)

// log is the imaging package logger, tagged module=imaging.
var log zerolog.Logger = logging.For("imaging")
