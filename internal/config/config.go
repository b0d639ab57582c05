package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Port        string
	Origin      string
	Environment string
	LogLevel    string
	Database    DatabaseConfig
	Calendar    CalendarConfig
	WhatsApp    WhatsAppConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// CalendarConfig holds the visible grid window and layout settings
type CalendarConfig struct {
	DayStartHour    int
	DayEndHour      int
	MinBlockMinutes int
	GutterPct       float64
	WeekStart       time.Weekday
}

// WhatsAppConfig holds the WhatsApp Cloud API side channel settings
type WhatsAppConfig struct {
	AccessToken     string
	PhoneNumberID   string
	NotifyRecipient string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "fisioflow"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	dayStart, err := strconv.Atoi(getEnv("CAL_DAY_START_HOUR", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid CAL_DAY_START_HOUR: %w", err)
	}
	dayEnd, err := strconv.Atoi(getEnv("CAL_DAY_END_HOUR", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid CAL_DAY_END_HOUR: %w", err)
	}
	if dayEnd <= dayStart {
		return nil, fmt.Errorf("CAL_DAY_END_HOUR must be greater than CAL_DAY_START_HOUR")
	}
	minBlock, err := strconv.Atoi(getEnv("CAL_MIN_BLOCK_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid CAL_MIN_BLOCK_MINUTES: %w", err)
	}
	gutter, err := strconv.ParseFloat(getEnv("CAL_GUTTER_PCT", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CAL_GUTTER_PCT: %w", err)
	}
	weekStart, err := parseWeekday(getEnv("CAL_WEEK_START", "sunday"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:        getEnv("PORT", "3001"),
		Origin:      getEnv("ORIGIN", "http://localhost:5173"),
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Database:    dbConfig,
		Calendar: CalendarConfig{
			DayStartHour:    dayStart,
			DayEndHour:      dayEnd,
			MinBlockMinutes: minBlock,
			GutterPct:       gutter,
			WeekStart:       weekStart,
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:     getEnv("WHATSAPP_ACCESS_TOKEN", ""),
			PhoneNumberID:   getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			NotifyRecipient: getEnv("WHATSAPP_NOTIFY_RECIPIENT", ""),
		},
	}, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	days := map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}
	if d, ok := days[s]; ok {
		return d, nil
	}
	return time.Sunday, fmt.Errorf("invalid CAL_WEEK_START: %q", s)
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
