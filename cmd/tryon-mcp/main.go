package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/tryon-mcp/internal/config"
	"github.com/ironsheep/tryon-mcp/internal/logging"
	"github.com/ironsheep/tryon-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("tryon-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("tryon-mcp - MCP server for virtual eyewear try-on")
			fmt.Println()
			fmt.Println("Usage: tryon-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  TRYON_MCP_LOG_LEVEL=debug    Log level (debug, info, warn, error)")
			fmt.Println("  TRYON_ASSET_DIR=<dir>        Base directory for relative overlay paths")
			fmt.Println("  TRYON_WIDTH_SCALE=1.8        Overlay width as a multiple of eye distance")
			fmt.Println("  TRYON_ASPECT_RATIO=0.8       Overlay height as a fraction of its width")
			fmt.Println("  TRYON_LOAD_TIMEOUT=10s       Limit for loading one overlay image")
			fmt.Println("  TRYON_WAIT_TIMEOUT=5s        Limit a tool call waits for a deferred draw")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	cfg := config.Load()

	// Logging goes to stderr (stdout is for MCP protocol)
	logging.Setup(os.Stderr, cfg.LogLevel)
	log.Debug().
		Str("version", Version).
		Str("built", BuildTime).
		Str("commit", GitCommit).
		Msg("Try-on MCP Server starting")

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
