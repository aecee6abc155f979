// Package config provides configuration management for the Thaiyyal workflow engine.
//
// # Overview
//
// The config package centralizes all configuration for the workflow engine
// in one Config struct, with preset constructors and validation.
//
// # Features
//
//   - Centralized configuration: Single source of truth
//   - Type-safe: Strongly typed configuration options
//   - Validation: Validate rejects negative durations and limits
//   - Defaults: Default, Development, Production and Testing presets
//   - Copying: Clone returns a deep copy
//
// Values are set in code. The package does not read environment variables
// or configuration files, and a Config is not reloaded at runtime.
//
// # Configuration Structure
//
// The configuration is organized into logical sections:
//
//   - Execution limits: Timeouts and iteration limits
//   - HTTP settings: HTTP request configuration
//   - Security: Network access control and restrictions
//   - Cache settings: Cache TTL and size limits
//   - Resource limits: Memory and size constraints
//   - Retry settings: Retry and backoff configuration
//
// # Basic Usage
//
//import "github.com/harshj20/taskflow/pkg/config"
//
//// Create default configuration
//cfg := config.Default()
//
//// Use in engine
//eng := engine.New(r, st, engine.WithMaxExecutionTime(cfg.MaxExecutionTime))
//
// # Custom Configuration
//
//cfg := config.Default()
//cfg.MaxExecutionTime = 10 * time.Minute
//cfg.HTTPTimeout = 30 * time.Second
//cfg.MaxNodes = 1000
//if err := cfg.Validate(); err != nil {
//    // handle invalid configuration
//}
//
// # Default Configuration
//
// The default configuration provides secure, production-ready defaults:
//
//MaxExecutionTime: 5 minutes
//MaxNodeExecutionTime: 30 seconds
//MaxIterations: 10000
//HTTPTimeout: 30 seconds
//MaxHTTPRedirects: 10
//MaxResponseSize: 10MB
//AllowHTTP: false (HTTPS only)
//AllowPrivateIPs: false
//AllowLocalhost: false
//AllowLinkLocal: false
//AllowCloudMetadata: false
//DefaultCacheTTL: 1 hour
//MaxCacheSize: 1000
//MaxNodes: 1000
//MaxEdges: 5000
//DefaultMaxAttempts: 3
//DefaultBackoff: 1 second
//
// # Thread Safety
//
// Configuration objects are safe for concurrent read access.
package config
