package endpoints

import (
	"github.com/ztguard/ztguard/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterMetricsEndpoint(srv)
	RegisterLintEndpoints(srv)
	RegisterDecideEndpoints(srv)
	RegisterFindingsEndpoints(srv)
	RegisterDecisionsEndpoints(srv)
}
