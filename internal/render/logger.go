package render

import (
	"github.com/rs/zerolog"

	"github.com/ironsheep/tryon-mcp/internal/logging"
)

var log zerolog.Logger = logging.For("render")
