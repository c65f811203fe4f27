package app

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brickline/brickline-backend/internal/pkg/logger"
	"github.com/brickline/brickline-backend/internal/services"
	"github.com/brickline/brickline-backend/internal/utils"
)

type Config struct {
	ServiceName  string
	Environment  string
	Version      string
	JWTSecretKey string
	Thresholds   services.Thresholds
}

// thresholdsFile is the optional YAML file shape for detector defaults.
// Zero or negative values fall through to the built-in defaults.
type thresholdsFile struct {
	ApproachingPercent int `yaml:"approaching_percent"`
	OverrunPercent     int `yaml:"overrun_percent"`
}

// LoadConfig layers threshold defaults: built-ins, then the optional YAML
// file, then environment variables.
func LoadConfig(log *logger.Logger) Config {
	thresholds := services.DefaultThresholds()
	if path := utils.GetEnv("VARIANCE_THRESHOLDS_FILE", "", log); path != "" {
		fromFile, err := loadThresholdsFile(path)
		if err != nil {
			log.Warn("threshold defaults file unreadable, using built-ins", "path", path, "error", err.Error())
		} else {
			thresholds = fromFile
		}
	}
	thresholds.ApproachingPercent = utils.GetEnvAsInt("VARIANCE_APPROACHING_PERCENT", thresholds.ApproachingPercent, log)
	thresholds.OverrunPercent = utils.GetEnvAsInt("VARIANCE_OVERRUN_PERCENT", thresholds.OverrunPercent, log)

	return Config{
		ServiceName:  utils.GetEnv("SERVICE_NAME", "brickline", log),
		Environment:  utils.GetEnv("ENVIRONMENT", "development", log),
		Version:      utils.GetEnv("SERVICE_VERSION", "dev", log),
		JWTSecretKey: utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		Thresholds:   thresholds,
	}
}

func loadThresholdsFile(path string) (services.Thresholds, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return services.Thresholds{}, err
	}
	var f thresholdsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return services.Thresholds{}, err
	}
	thresholds := services.DefaultThresholds()
	if f.ApproachingPercent > 0 {
		thresholds.ApproachingPercent = f.ApproachingPercent
	}
	if f.OverrunPercent > 0 {
		thresholds.OverrunPercent = f.OverrunPercent
	}
	return thresholds, nil
}
