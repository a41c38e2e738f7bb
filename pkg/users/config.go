package users

// Config carries the password hashing parameters for the file driver.
type Config struct {
	// Iterations is the PBKDF2 round count.
	Iterations int `env:"AUTH_USERS_HASH_ITERATIONS" envDefault:"10000"`
	// SaltLength is the per-account salt length in characters.
	SaltLength int `env:"AUTH_USERS_SALT_LENGTH" envDefault:"16"`
	// KeyLength is the derived key length in bytes.
	KeyLength int `env:"AUTH_USERS_KEY_LENGTH" envDefault:"32"`
	// ResetPasswordLength is the length of generated passwords.
	ResetPasswordLength int `env:"AUTH_USERS_RESET_PASSWORD_LENGTH" envDefault:"12"`
}

// DefaultConfig returns the hashing parameters used when no configuration
// is supplied.
func DefaultConfig() Config {
	return Config{
		Iterations:          10000,
		SaltLength:          16,
		KeyLength:           32,
		ResetPasswordLength: 12,
	}
}
