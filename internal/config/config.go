package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type PlannerConfig struct {
	DatabaseURL    string
	CalendarProdID string
	ExportDir      string
}

var instance *PlannerConfig
var once sync.Once

// GetPlannerConfig loads the configuration once from the environment,
// reading a .env file first when one is present. Every setting has a
// working default, so a missing .env is not fatal.
func GetPlannerConfig() *PlannerConfig {
	once.Do(func() {
		instance = &PlannerConfig{}

		if err := godotenv.Load(); err != nil {
			logrus.Debugf("no .env file loaded: %s", err.Error())
		}

		instance.DatabaseURL = getEnv("DATABASE_URL", "planner.db")
		instance.CalendarProdID = getEnv("CALENDAR_PRODID", "")
		instance.ExportDir = getEnv("EXPORT_DIR", ".")
	})

	return instance
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}
