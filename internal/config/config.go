package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StrategyInteractive = "interactive"
	StrategyHeuristic   = "heuristic"

	// MarkerChoose asks side A for its marker at startup.
	MarkerChoose = "choose"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string  `yaml:"http-port" env:"HTTP_PORT" env-default:""`
	Redis    Redis   `yaml:"redis"`
	Match    Match   `yaml:"match"`
	Players  Players `yaml:"players"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Match struct {
	BoardSize    int    `yaml:"board-size" env:"MATCH_BOARD_SIZE" env-default:"3"`
	WinThreshold int    `yaml:"win-threshold" env:"MATCH_WIN_THRESHOLD" env-default:"3"`
	FirstMove    string `yaml:"first-move" env:"MATCH_FIRST_MOVE" env-default:"external"`
	RoundStart   string `yaml:"round-start" env:"MATCH_ROUND_START" env-default:"fixed"`
	Seed         int64  `yaml:"seed" env:"MATCH_SEED" env-default:"0"`
}

type Players struct {
	SideA Player `yaml:"side-a" env-prefix:"SIDE_A_"`
	SideB Player `yaml:"side-b" env-prefix:"SIDE_B_"`
}

type Player struct {
	Name     string `yaml:"name" env:"NAME" env-default:""`
	Marker   string `yaml:"marker" env:"MARKER" env-default:""`
	Strategy string `yaml:"strategy" env:"STRATEGY" env-default:""`
	Persona  string `yaml:"persona" env:"PERSONA" env-default:""`
	// Preference narrows the heuristic's random fallback to these positions.
	Preference []int `yaml:"preference" env:"PREFERENCE" env-separator:","`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	config.applyPlayerDefaults()

	return config, nil
}

// applyPlayerDefaults fills the classic setup: a human X against a computer.
func (that *Config) applyPlayerDefaults() {
	if that.Players.SideA.Strategy == "" {
		that.Players.SideA.Strategy = StrategyInteractive
	}

	if that.Players.SideB.Strategy == "" {
		that.Players.SideB.Strategy = StrategyHeuristic
	}

	if that.Players.SideA.Marker == "" {
		that.Players.SideA.Marker = "X"
	}
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
