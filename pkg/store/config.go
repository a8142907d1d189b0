package store

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config locates the store on disk.
type Config interface {
	BasePath() string
}

// Settings is the resolved `.a11yreq.yaml` configuration.
type Settings struct {
	Path     string `json:"path"`
	Rules    string `json:"rules,omitempty"`
	Driver   string `json:"driver"`
	Addr     string `json:"addr"`
	LogLevel string `json:"logLevel"`
	S3       S3     `json:"s3"`
}

// S3 locates the object store used for s3:// outputs. Credentials come from
// the usual AWS environment.
type S3 struct {
	Region    string `json:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"`
	PathStyle bool   `json:"pathStyle,omitempty"`
}

// BasePath implements Config.
func (s *Settings) BasePath() string {
	return s.Path
}

// LoadConfig reads `.a11yreq.yaml` from $A11YREQ_CONFIG_PATH or the working
// directory. Every key may be overridden with an A11YREQ_ environment
// variable, dots replaced by underscores.
func LoadConfig() (*Settings, error) {
	viper.SetDefault("path", "~/.a11yreq.db")
	viper.SetDefault("driver", DriverDiskv)
	viper.SetDefault("addr", "localhost:8080")
	viper.SetDefault("log.level", "info")
	viper.SetConfigName(".a11yreq") // .yaml is implicit
	viper.SetEnvPrefix("A11YREQ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if override := os.Getenv("A11YREQ_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	rules := viper.GetString("rules")
	if rules != "" {
		if rules, err = homedir.Expand(rules); err != nil {
			return nil, fmt.Errorf("store: expand rules: %w", err)
		}
	}

	return &Settings{
		Path:     path,
		Rules:    rules,
		Driver:   viper.GetString("driver"),
		Addr:     viper.GetString("addr"),
		LogLevel: viper.GetString("log.level"),
		S3: S3{
			Region:    viper.GetString("s3.region"),
			Endpoint:  viper.GetString("s3.endpoint"),
			PathStyle: viper.GetBool("s3.pathstyle"),
		},
	}, nil
}
