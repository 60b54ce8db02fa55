package config

import (
	"bytes"
	_ "embed"
	"os"
	"text/template"

	cmtconfig "github.com/cometbft/cometbft/config"
	cmtos "github.com/cometbft/cometbft/libs/os"
)

// DefaultDirPerm is the default permissions used when creating directories.
const DefaultDirPerm = 0o700

var appTemplate *template.Template

func init() {
	var err error
	if appTemplate, err = template.New("appConfigTemplate").Parse(defaultAppTemplate); err != nil {
		panic(err)
	}
}

// WriteConfigFile writes the full node configuration: the cometbft section via
// its own renderer, then the [app] section appended from our template. The
// mapstructure squash on Config makes viper read both back from one file.
func WriteConfigFile(configFilePath string, cfg *Config) {
	cmtconfig.WriteConfigFile(configFilePath, cfg.Config)

	var buffer bytes.Buffer
	if err := appTemplate.Execute(&buffer, cfg); err != nil {
		panic(err)
	}

	existing, err := os.ReadFile(configFilePath)
	if err != nil {
		panic(err)
	}
	cmtos.MustWriteFile(configFilePath, append(existing, buffer.Bytes()...), 0o644)
}

// Note: any changes to the variables/mapstructure here must be reflected in
// the AppConfig struct in config/config.go.
//
//go:embed config.toml.tpl
var defaultAppTemplate string
