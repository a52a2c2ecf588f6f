package conf

import (
	"path/filepath"

	"github.com/jenfonro/sharesync/pkg/utils"
)

type Database struct {
	Type        string `json:"type" env:"TYPE"`
	DBFile      string `json:"db_file" env:"FILE"`
	TablePrefix string `json:"table_prefix" env:"TABLE_PREFIX"`
}

type Scheme struct {
	Address string `json:"address" env:"ADDR"`
	HTTPPort int    `json:"http_port" env:"HTTP_PORT"`
}

type Config struct {
	JwtSecret      string          `json:"jwt_secret" env:"JWT_SECRET"`
	TokenExpiresIn int             `json:"token_expires_in" env:"TOKEN_EXPIRES_IN"`
	Scheme         Scheme          `json:"scheme" envPrefix:"SCHEME_"`
	Database       Database        `json:"database" envPrefix:"DB_"`
	Log            utils.LogConfig `json:"log" envPrefix:"LOG_"`
	TempDir        string          `json:"temp_dir" env:"TEMP_DIR"`
}

func DefaultConfig(dataDir string) *Config {
	return &Config{
		JwtSecret:      "",
		TokenExpiresIn: 168,
		Scheme: Scheme{
			Address:  "0.0.0.0",
			HTTPPort: 5299,
		},
		Database: Database{
			Type:        "sqlite3",
			DBFile:      filepath.Join(dataDir, "data.db"),
			TablePrefix: "x_",
		},
		Log: utils.LogConfig{
			Enable:     true,
			Path:       filepath.Join(dataDir, "log/log.log"),
			MaxSize:    50,
			MaxBackups: 30,
			MaxAge:     28,
		},
		TempDir: filepath.Join(dataDir, "temp"),
	}
}
