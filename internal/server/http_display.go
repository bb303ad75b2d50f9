package server

// routeSummary lists the endpoints announced at startup
var routeSummary = []string{
	"GET /api/health",
	"GET /stats",
	"POST /api/matcher",
	"POST /api/analyze",
	"POST /api/validate",
}

// displayServerInfo logs what the server is about to serve and which
// protections are active. Missing safeguards are logged as warnings.
func (s *Server) displayServerInfo() {
	s.Logger.Info("Server endpoints", "routes", routeSummary)

	model := s.AppConfig.AI.Model
	if s.AI.HasKey() {
		s.Logger.Info("Model configured", "model", model, "dialect", s.AI.Dialect())
	} else {
		s.Logger.Warn("No model API key configured, analysis endpoints will fail",
			"model", model, "dialect", s.AI.Dialect())
	}

	if len(s.APIKeys) == 0 {
		s.Logger.Warn("API authentication disabled, no API keys configured")
	} else {
		s.Logger.Info("API authentication enabled",
			"keys", len(s.APIKeys),
			"headers", []string{"X-API-Key", "Authorization: Bearer"})
	}

	if s.MaxRequestSize <= 0 {
		s.Logger.Warn("Request size limit disabled")
	} else {
		s.Logger.Info("Request size limit", "bytes", s.MaxRequestSize)
	}

	if rl := s.RateLimit; rl != nil && rl.Enabled {
		s.Logger.Info("Rate limiting enabled",
			"requests_per_min", rl.RequestsPerMin,
			"burst", rl.BurstCapacity,
			"by_api_key", rl.ByAPIKey,
			"by_ip", rl.ByIP)
	} else {
		s.Logger.Info("Rate limiting disabled")
	}
}
