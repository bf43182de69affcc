package utils

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Email        EmailConfig
	Confirmation ConfirmationConfig
	RateLimit    RateLimitConfig
	Messages     Messages
}

type AppConfig struct {
	Name                   string
	Port                   string
	Debug                  bool
	LogPath                string
	CORSOrigins            []string
	ShutdownTimeoutSeconds int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type EmailConfig struct {
	Backend        string // smtp | log
	Host           string
	Port           int
	User           string
	Password       string
	From           string
	TimeoutSeconds int
}

type ConfirmationConfig struct {
	CodeLength int
}

type RateLimitConfig struct {
	Enabled       bool
	Requests      int
	WindowSeconds int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Messages holds every user-facing string that is not a validator message.
type Messages struct {
	MailSubject          string
	MailText             string // one %s verb for the confirmation code
	MailSent             string
	WrongRole            string
	NoDeleteYourself     string
	UsernameReserved     string
	UsernameTaken        string
	EmailTaken           string
	InvalidCredentials   string
	DuplicateReview      string
	FutureYear           string
	AuthenticationNeeded string
	PermissionDenied     string
	ActionNotAllowed     string
	TooManyRequests      string
	UnknownSlug          string // one %s verb for the slug
	SlugTaken            string
	NotFound             string
	MethodNotAllowed     string
	ValidationFailed     string
	InvalidBody          string
	InvalidTokenFormat   string
	InvalidToken         string
	InternalError        string
	ServiceUnavailable   string
}

// DefaultMessages returns the built-in English messages.
func DefaultMessages() Messages {
	return Messages{
		MailSubject:          "Your confirmation code",
		MailText:             "Welcome!\nYour confirmation code: %s\n\nThe review team.",
		MailSent:             "Email with confirmation code sent",
		WrongRole:            "Wrong role",
		NoDeleteYourself:     "You can't delete yourself",
		UsernameReserved:     "This username is reserved",
		UsernameTaken:        "A user with that username already exists",
		EmailTaken:           "A user with that email already exists",
		InvalidCredentials:   "Invalid username or confirmation code",
		DuplicateReview:      "You have already written a review for this title",
		FutureYear:           "Unable to specify a year in the future",
		AuthenticationNeeded: "Authentication credentials were not provided",
		PermissionDenied:     "You do not have permission to perform this action",
		ActionNotAllowed:     "This action is not allowed",
		TooManyRequests:      "Too many requests, slow down",
		UnknownSlug:          "Object with slug=%s does not exist",
		SlugTaken:            "An object with this slug already exists",
		NotFound:             "Not found",
		MethodNotAllowed:     "Method not allowed",
		ValidationFailed:     "Validation failed",
		InvalidBody:          "Invalid request body",
		InvalidTokenFormat:   "Invalid token format. Use: Bearer <token>",
		InvalidToken:         "Invalid or expired token",
		InternalError:        "Internal server error",
		ServiceUnavailable:   "Database unavailable",
	}
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	msgs := DefaultMessages()
	viper.SetDefault("APP_NAME", "media-review")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("MAIL_BACKEND", "log")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("EMAIL_FROM", "noreply@media-review.local")
	viper.SetDefault("MAIL_TIMEOUT_SECONDS", 10)
	viper.SetDefault("CONFIRMATION_CODE_LENGTH", 64)
	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("MSG_MAIL_SUBJECT", msgs.MailSubject)
	viper.SetDefault("MSG_MAIL_TEXT", msgs.MailText)

	// .env is optional, environment variables are enough in containers
	if err := viper.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	msgs.MailSubject = viper.GetString("MSG_MAIL_SUBJECT")
	msgs.MailText = viper.GetString("MSG_MAIL_TEXT")

	config := &Config{
		App: AppConfig{
			Name:                   viper.GetString("APP_NAME"),
			Port:                   viper.GetString("PORT"),
			Debug:                  viper.GetBool("DEBUG"),
			LogPath:                viper.GetString("LOG_PATH"),
			CORSOrigins:            splitList(viper.GetString("CORS_ORIGINS")),
			ShutdownTimeoutSeconds: viper.GetInt("SHUTDOWN_TIMEOUT_SECONDS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Backend:        viper.GetString("MAIL_BACKEND"),
			Host:           viper.GetString("SMTP_HOST"),
			Port:           viper.GetInt("SMTP_PORT"),
			User:           viper.GetString("SMTP_USER"),
			Password:       viper.GetString("SMTP_PASS"),
			From:           viper.GetString("EMAIL_FROM"),
			TimeoutSeconds: viper.GetInt("MAIL_TIMEOUT_SECONDS"),
		},
		Confirmation: ConfirmationConfig{
			CodeLength: ClampConfirmationCodeLength(viper.GetInt("CONFIRMATION_CODE_LENGTH")),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			Requests:      viper.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
			RedisAddr:     viper.GetString("REDIS_ADDR"),
			RedisPassword: viper.GetString("REDIS_PASSWORD"),
			RedisDB:       viper.GetInt("REDIS_DB"),
		},
		Messages: msgs,
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
