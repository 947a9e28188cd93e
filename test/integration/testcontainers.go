package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ztguard/ztguard/pkg/audit"
	"github.com/ztguard/ztguard/pkg/config"
	"github.com/ztguard/ztguard/pkg/decision"
	"github.com/ztguard/ztguard/pkg/enforce"
	"github.com/ztguard/ztguard/pkg/lint"
	"github.com/ztguard/ztguard/pkg/server"
	"github.com/ztguard/ztguard/pkg/server/endpoints"
	"github.com/ztguard/ztguard/pkg/server/middleware"
)

// testJWTKey signs the bearer tokens used by the scenarios. The same key is
// handed to the server under test, inline or via its environment.
const testJWTKey = "integration-test-signing-key"

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB            *gorm.DB
	RawDB         *sql.DB
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string // Connection string for the test database
	JWTAuth       *middleware.JWTAuthenticator
	HTTPClient    *http.Client
	Cancel        context.CancelFunc
	ServerProcess *exec.Cmd
	InlineServer  *server.Server // For inline mode
	listener      net.Listener
}

// NewTestContext creates a new test context with PostgreSQL testcontainer.
// Modes:
//   - Binary mode (default): Set ZTGUARD_BINARY to the path of the ztguardctl binary
//   - Inline mode: Set ZTGUARD_INLINE=1 to run the server in-process (no binary needed)
func NewTestContext(ctx context.Context) (*TestContext, error) {
	// Find project root and migrations directory
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	// Check mode
	inlineMode := os.Getenv("ZTGUARD_INLINE") == "1"
	binaryPath := os.Getenv("ZTGUARD_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either ZTGUARD_BINARY or ZTGUARD_INLINE=1 is required.\n\nBinary mode:\n  go build -o ztguardctl ./cmd/ztguardctl\n  INTEGRATION_TEST=1 ZTGUARD_BINARY=$(pwd)/ztguardctl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 ZTGUARD_INLINE=1 go test -v ./test/integration/...")
	}

	if !inlineMode {
		// Verify the binary exists
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("ZTGUARD_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	// Start PostgreSQL container
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ztguard_test"),
		tcpostgres.WithUsername("ztguard"),
		tcpostgres.WithPassword("ztguard"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	// Get connection string for the host (not container network)
	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	connStr := fmt.Sprintf("postgres://ztguard:ztguard@%s:%s/ztguard_test?sslmode=disable", host, port.Port())

	// Connect with GORM for test setup/assertions
	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get raw SQL connection for migrations
	rawDB, err := db.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	// Run migrations
	if err := runMigrations(rawDB, migrationsDir); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	jwtAuth := middleware.NewJWTAuthenticator([]byte(testJWTKey))

	serverPort := "18081" // Use a fixed port for testing
	serverURL := fmt.Sprintf("http://127.0.0.1:%s", serverPort)

	var serverProcess *exec.Cmd
	var inlineServer *server.Server
	var listener net.Listener
	var cancel context.CancelFunc

	if inlineMode {
		// Start inline server
		inlineServer, listener, cancel, err = startInlineServer(db, jwtAuth, serverPort)
		if err != nil {
			_ = pgContainer.Terminate(ctx)
			return nil, fmt.Errorf("failed to start inline server: %w", err)
		}
	} else {
		// Start the actual binary
		serverProcess, cancel, err = startBinary(binaryPath, connStr, serverPort)
		if err != nil {
			_ = pgContainer.Terminate(ctx)
			return nil, fmt.Errorf("failed to start server binary: %w", err)
		}
	}

	// Wait for server to be ready
	if err := waitForServer(serverURL, 30*time.Second); err != nil {
		cancel()
		if serverProcess != nil && serverProcess.Process != nil {
			_ = serverProcess.Process.Kill()
		}
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return &TestContext{
		DB:            db,
		RawDB:         rawDB,
		Container:     pgContainer,
		ServerURL:     serverURL,
		DatabaseURL:   connStr,
		JWTAuth:       jwtAuth,
		HTTPClient:    &http.Client{Timeout: 10 * time.Second},
		Cancel:        cancel,
		ServerProcess: serverProcess,
		InlineServer:  inlineServer,
		listener:      listener,
	}, nil
}

// startInlineServer starts the server in-process (no binary needed)
func startInlineServer(db *gorm.DB, jwtAuth *middleware.JWTAuthenticator, port string) (*server.Server, net.Listener, context.CancelFunc, error) {
	_, cancel := context.WithCancel(context.Background())

	// Audit lines on stderr just add noise to the godog output
	audit.SetEnabled(false)

	// Scenario fixtures assume these context settings
	_ = os.Setenv("ZTGUARD_TRUSTED_NETWORKS", "10.0.0.0/8")
	_ = os.Setenv("ZTGUARD_TRUSTED_DEVICES", "laptop-42")
	_ = os.Setenv("ZTGUARD_BUSINESS_HOURS_START", "0")
	_ = os.Setenv("ZTGUARD_BUSINESS_HOURS_END", "24")
	_ = os.Setenv("ZTGUARD_DEFAULT_OUTCOME", "deny")
	if err := config.Reload(); err != nil {
		cancel()
		return nil, nil, nil, err
	}
	cfg := config.Get()
	cfg.ListenAddress = "127.0.0.1:" + port

	contextPolicy, err := cfg.ContextPolicy()
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	rules := &decision.RuleSet{
		DefaultOutcome: decision.OutcomeDeny,
		Rules: []decision.Rule{
			{
				ID:          "allow-s3-read",
				Description: "Read access to storage objects permitted",
				Outcome:     decision.OutcomeAllow,
				Conditions:  decision.Conditions{Actions: []string{"s3:GetObject"}},
			},
		},
	}
	engine := decision.NewEngine(contextPolicy, rules)
	enforcer := enforce.NewEnforcer(engine)

	s := server.NewServer(db, cfg, lint.NewLinter(), enforcer, jwtAuth)
	endpoints.RegisterAll(s)

	listener, err := net.Listen("tcp", "127.0.0.1:"+port)
	if err != nil {
		cancel()
		return nil, nil, nil, fmt.Errorf("failed to create listener on port %s: %w", port, err)
	}

	// Start server in background using the listener
	go func() {
		_ = s.StartWithListener(listener)
	}()

	return s, listener, cancel, nil
}

// startBinary starts the ztguardctl server binary
func startBinary(binaryPath, dbURL, port string) (*exec.Cmd, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(context.Background())

	// Use --no-migrate since we already ran migrations in the test setup
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "--listen-address", "127.0.0.1:"+port)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+dbURL,
		"ZTGUARD_JWT_KEY="+testJWTKey,
		"ZTGUARD_AUDIT_ENABLED=false",
		"ZTGUARD_TRUSTED_NETWORKS=10.0.0.0/8",
		"ZTGUARD_TRUSTED_DEVICES=laptop-42",
		"ZTGUARD_BUSINESS_HOURS_START=0",
		"ZTGUARD_BUSINESS_HOURS_END=24",
		"ZTGUARD_DEFAULT_OUTCOME=deny",
		"ZTGUARD_RULE_SET_PATH="+rulesetFixturePath(),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to start binary: %w", err)
	}

	return cmd, cancel, nil
}

// rulesetFixturePath returns the absolute path to the rule set used by the
// scenarios, matching the inline rule set above.
func rulesetFixturePath() string {
	abs, err := filepath.Abs(filepath.Join("fixtures", "ruleset.yml"))
	if err != nil {
		return filepath.Join("fixtures", "ruleset.yml")
	}
	return abs
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Cancel != nil {
		tc.Cancel()
	}
	if tc.listener != nil {
		_ = tc.listener.Close()
	}
	if tc.ServerProcess != nil && tc.ServerProcess.Process != nil {
		_ = tc.ServerProcess.Process.Kill()
		_ = tc.ServerProcess.Wait()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	// Try relative paths from test directory
	paths := []string{
		"../..",
		"..",
		".",
	}

	for _, p := range paths {
		goMod := filepath.Join(p, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

// runMigrations executes the up migration files in order
func runMigrations(db *sql.DB, migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("migration %s failed: %w", filepath.Base(file), err)
		}
	}

	return nil
}
