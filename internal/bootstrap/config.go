package bootstrap

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v9"
	"github.com/jenfonro/sharesync/internal/conf"
	"github.com/jenfonro/sharesync/pkg/utils"
)

func InitConfig() {
	if conf.DataDir == "" {
		conf.DataDir = "data"
	}
	if err := os.MkdirAll(conf.DataDir, 0o755); err != nil {
		utils.Log.Fatalf("failed to create data dir: %v", err)
	}
	configPath := filepath.Join(conf.DataDir, "config.json")
	conf.Conf = conf.DefaultConfig(conf.DataDir)
	if data, err := os.ReadFile(configPath); err == nil {
		if err := utils.Json.Unmarshal(data, conf.Conf); err != nil {
			utils.Log.Fatalf("failed to parse config file: %v", err)
		}
	} else if !os.IsNotExist(err) {
		utils.Log.Fatalf("failed to read config file: %v", err)
	}
	if err := env.ParseWithOptions(conf.Conf, env.Options{Prefix: "SHARESYNC_"}); err != nil {
		utils.Log.Fatalf("failed to load config from env: %v", err)
	}
	if conf.Conf.JwtSecret == "" {
		conf.Conf.JwtSecret = randomSecret()
	}
	writeConfig(configPath)
	if err := os.MkdirAll(filepath.Dir(conf.Conf.Database.DBFile), 0o755); err != nil {
		utils.Log.Fatalf("failed to create database dir: %v", err)
	}
}

func writeConfig(path string) {
	data, err := utils.Json.MarshalIndent(conf.Conf, "", "  ")
	if err != nil {
		utils.Log.Fatalf("failed to marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		utils.Log.Fatalf("failed to write config file: %v", err)
	}
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		utils.Log.Fatalf("failed to generate jwt secret: %v", err)
	}
	return hex.EncodeToString(buf)
}

func InitLog() {
	utils.SetupLog(conf.Debug, conf.Conf.Log)
}
