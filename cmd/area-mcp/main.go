package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/heart-area-tools/internal/config"
	"github.com/ironsheep/heart-area-tools/internal/server"
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
			fmt.Printf("area-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("area-mcp - MCP server for heart area analysis")
			fmt.Println()
			fmt.Println("Usage: area-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  AREA_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  AREA_CONFIG=<path>      YAML configuration file")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.LoadConfig(os.Getenv("AREA_CONFIG"))
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if os.Getenv("AREA_LOG_LEVEL") == "debug" {
		log.Printf("Area MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Labels: %v", cfg.Labels)
	}

	server.Version = Version
	srv := server.New(cfg)
	if err := srv.Run(os.Stdin, os.Stdout); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
