package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"
)

func newServerConfig() serverConfig {
	return serverConfig{
		Domain:             make(map[string]domainConfig),
		Port:               defaultPort,
		BaseTimeout:        defaultBaseTimeout,
		ComplexBodyTimeout: defaultComplexBodyTimeout,
		MaxConnections:     0,
	}
}

type serverConfig struct {
	Domain             map[string]domainConfig
	Port               int
	BaseTimeout        time.Duration
	ComplexBodyTimeout time.Duration
	MaxConnections     int64
}

type domainConfig struct {
	Path         string
	CertFilePath string
	KeyFilePath  string
}

func (dc domainConfig) IsValid(name string) error {
	var errs []error
	if dc.Path == "" {
		errs = append(errs, fmt.Errorf("%s: no path configured", name))
	}
	if dc.CertFilePath == "" {
		errs = append(errs, fmt.Errorf("%s: no cert file configured", name))
	}
	if dc.KeyFilePath == "" {
		errs = append(errs, fmt.Errorf("%s: no key file configured", name))
	}
	return errors.Join(errs...)
}

var errNoDomainsConfigured = errors.New("no domains configured")

func (sc serverConfig) IsValid() error {
	if len(sc.Domain) == 0 {
		return errNoDomainsConfigured
	}
	var errs []error
	for name, dc := range sc.Domain {
		errs = append(errs, dc.IsValid(name))
	}
	return errors.Join(errs...)
}

var (
	defaultBaseTimeout        = time.Second
	defaultComplexBodyTimeout = 30 * time.Second
	defaultPort               = 1965
	defaultPath               = "."
)

func loadConfigFile(conf io.Reader) (serverConfig serverConfig, err error) {
	_, err = toml.NewDecoder(conf).Decode(&serverConfig)
	if err != nil {
		return
	}
	if serverConfig.Port == 0 {
		serverConfig.Port = defaultPort
	}
	if serverConfig.BaseTimeout == 0 {
		serverConfig.BaseTimeout = defaultBaseTimeout
	}
	if serverConfig.ComplexBodyTimeout == 0 {
		serverConfig.ComplexBodyTimeout = defaultComplexBodyTimeout
	}
	return serverConfig, serverConfig.IsValid()
}
