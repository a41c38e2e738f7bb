package auth

// Config holds Manager behavior settings.
type Config struct {
	// UseAllDrivers makes every fan-out call visit all matching drivers.
	// When false (the default) dispatch stops at the first driver that
	// answers successfully.
	UseAllDrivers bool `env:"AUTH_USE_ALL_DRIVERS" envDefault:"false"`

	// PersistenceKeyPrefix prefixes the session token when storing the
	// current unified id in the persistence driver.
	PersistenceKeyPrefix string `env:"AUTH_PERSISTENCE_KEY_PREFIX" envDefault:"authbridge:user:"`
}

// DefaultConfig returns the default Manager configuration.
func DefaultConfig() Config {
	return Config{
		UseAllDrivers:        false,
		PersistenceKeyPrefix: "authbridge:user:",
	}
}
