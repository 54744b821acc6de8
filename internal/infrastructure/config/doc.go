// Package config provides 12-factor configuration management for the demo service.
//
// Values are resolved in this order, later sources winning:
//   - Default()
//   - an optional YAML file (LoadFile)
//   - environment variables
//   - CLI flags applied by cmd/server
//
// Environment Variables:
//   - PORT, HOST, SHUTDOWN_TIMEOUT
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - CORS_ORIGINS (comma separated)
//   - METRICS_ENABLED
//
// Example Usage:
//
//	cfg, err := config.LoadFile(*configPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Addr())
package config
