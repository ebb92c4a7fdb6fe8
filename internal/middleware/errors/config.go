package errors

// ErrorConfig error handling middleware ayarları
type ErrorConfig struct {
	ShowStackTrace bool           // sadece development
	Messages       map[int]string // 5xx için kullanıcıya dönen mesajlar
	MaxErrorLength int
}

// DefaultErrorConfig production ayarları
func DefaultErrorConfig() *ErrorConfig {
	return &ErrorConfig{
		ShowStackTrace: false,
		Messages: map[int]string{
			500: "Internal server error. The incident has been logged.",
			503: "Service temporarily unavailable. Please try again later.",
		},
		MaxErrorLength: 300,
	}
}

// ErrorConfigFor APP_ENV değerine göre config döner
func ErrorConfigFor(env string) *ErrorConfig {
	config := DefaultErrorConfig()
	if env == "development" {
		config.ShowStackTrace = true
		config.MaxErrorLength = 2000
	}
	return config
}
