package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ztguard/ztguard/pkg/config"
	"github.com/ztguard/ztguard/pkg/db"
	"github.com/ztguard/ztguard/pkg/enforce"
	"github.com/ztguard/ztguard/pkg/lint"
	"github.com/ztguard/ztguard/pkg/server"
	"github.com/ztguard/ztguard/pkg/server/endpoints"
	"github.com/ztguard/ztguard/pkg/server/middleware"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the ztguard HTTP server",
	Long: `Run the ztguard HTTP server.

The server requires the DATABASE_URL and ZTGUARD_JWT_KEY environment
variables. By default, database migrations are run on startup. Use
--no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		jwtKey, err := middleware.KeyFromEnv()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		engine, err := buildEngine("")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		enforcer := enforce.NewEnforcer(engine)

		if addr, _ := cmd.Flags().GetString("listen-address"); addr != "" {
			cfg.ListenAddress = addr
		}

		s := server.NewServer(
			database,
			cfg,
			lint.NewLinter(),
			enforcer,
			middleware.NewJWTAuthenticator(jwtKey),
		)
		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s...\n", cfg.ListenAddress)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringP("listen-address", "l", "", "server bind address (overrides configuration)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
