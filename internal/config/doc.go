// Package config manages configuration for the factory CLI.
//
// Configuration is read from environment variables, after loading an
// optional .env file with godotenv:
//
//	cfg, err := config.Load()
//	if err == nil {
//	    err = cfg.Validate()
//	}
//
// # Environment Variables
//
//	FACTORY_STORE           memory | surreal | sqlite | postgres (default: memory)
//	FACTORY_DSN             DSN for the sqlite and postgres stores
//	FACTORY_FORMAT          raw | jsonapi (default: raw)
//	FACTORY_DEFINITIONS     comma-separated YAML definition files
//	FACTORY_ALLOW_REDEFINE  replace definitions registered twice (default: false)
//	FACTORY_SEED_PREFIX     email/username prefix of seed users (default: seed_)
//	FACTORY_TIMEOUT         timeout for store operations (default: 30s)
//	DB_HOST, DB_PORT        SurrealDB address (default: localhost:8000)
//	DB_NAMESPACE            SurrealDB namespace (default: factory)
//	DB_DATABASE             SurrealDB database (default: fixtures)
//	DB_USER, DB_PASSWORD    SurrealDB credentials (default: root/root)
//	LOG_LEVEL               debug | info | warn | error (default: info)
//	LOG_FORMAT              json | text (default: text)
//
// # Validation
//
// Validate reports every problem at once, joined with errors.Join.
package config
