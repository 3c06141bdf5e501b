package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host     string   `koanf:"host"`
	Port     int      `koanf:"port"`
	Frontend Frontend `koanf:"frontend"`
	Database Database `koanf:"db"`
	Session  Session  `koanf:"session"`
	Redis    Redis    `koanf:"redis"`
	Cors     Cors     `koanf:"cors"`
}

type Frontend struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type SessionStore string

const (
	MemorySessionStore SessionStore = "memory"
	RedisSessionStore  SessionStore = "redis"
)

type Session struct {
	CookieName string        `koanf:"cookiename"`
	MaxAge     time.Duration `koanf:"maxage"`
	Secure     bool          `koanf:"secure"`
	Store      SessionStore  `koanf:"store"`
}

type Redis struct {
	Addr string `koanf:"addr"`
	Pass string `koanf:"pass"`
	DB   int    `koanf:"db"`
}

type Cors struct {
	// Origins accepts exact origins and patterns with a single "*" wildcard, e.g. "http://localhost:*".
	Origins []string      `koanf:"origins"`
	MaxAge  time.Duration `koanf:"maxage"`
}

// Defaults returns the configuration used when neither the YAML file nor the environment override a value.
func Defaults() Application {
	return Application{
		Host: "http://localhost:3000",
		Port: 8080,
		Frontend: Frontend{
			Enabled: true,
			Dir:     "frontend",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "finwise",
			Pass:   "",
			Name:   "finwise",
			Schema: "finwise",
		},
		Session: Session{
			CookieName: "FINWISE_SESSION",
			MaxAge:     24 * time.Hour,
			Secure:     false,
			Store:      MemorySessionStore,
		},
		Redis: Redis{
			Addr: "localhost:6379",
		},
		Cors: Cors{
			Origins: []string{
				"http://localhost:*",
				"http://127.0.0.1:*",
				"https://finwise-msj9.onrender.com",
			},
			MaxAge: time.Hour,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "FINWISE_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "FINWISE_")), "_", ".")
			// comma separated lists, e.g. FINWISE_CORS_ORIGINS
			if strings.Contains(v, ",") {
				return k, strings.Split(v, ",")
			}
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
