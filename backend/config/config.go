package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string // sqlite, postgres
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	ServerPort string
	LogFormat  string // text, json

	// Location used for "today" in daily activity and flashcard dates.
	Location *time.Location

	// Hour of day at which the due-flashcard digest runs. Negative disables it.
	ReminderHour int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	loc := time.Local
	if tz := getEnv("TIMEZONE", ""); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, err
		}
	}

	reminderHour, err := strconv.Atoi(getEnv("REMINDER_HOUR", "9"))
	if err != nil || reminderHour > 23 {
		log.Printf("Invalid REMINDER_HOUR, falling back to 9")
		reminderHour = 9
	}

	return &Config{
		DBDriver:     getEnv("DB_DRIVER", "sqlite"),
		DBPath:       getEnv("DB_PATH", "data/courses.db"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", "postgres"),
		DBName:       getEnv("DB_NAME", "skillforge"),
		JWTSecret:    getEnv("JWT_SECRET", "secret"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		Location:     loc,
		ReminderHour: reminderHour,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
