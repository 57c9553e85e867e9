package config

const (
	// DefaultDatabaseURL is a SQLite file next to the binary.
	DefaultDatabaseURL = "./booktracker.db"

	// DefaultSecretKey is only acceptable in the development profile.
	DefaultSecretKey = "dev-secret-key-change-in-production"

	// DefaultEnvFile is the local override file read before the environment.
	DefaultEnvFile = ".env"
)
