package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"
)

const (
	defaultDialTimeout    = 15 * time.Second
	defaultRequestTimeout = 15 * time.Second
	defaultWaitTimeout    = time.Minute
)

// config is the configuration of the application read from the YAML file.
type config struct {
	// Local ledger storage.
	DB dbconfig.DBConfiguration `yaml:"db"`

	Logger loggerConfig `yaml:"logger"`

	RPC struct {
		Endpoint       string        `yaml:"endpoint"`
		DialTimeout    time.Duration `yaml:"dial_timeout"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		WaitTimeout    time.Duration `yaml:"wait_timeout"`
	} `yaml:"rpc"`

	// NEP-6 wallet with accounts authorizing calls.
	Wallet string `yaml:"wallet"`

	// Address or LE hex of the deployed token contract.
	Contract string `yaml:"contract"`
}

type loggerConfig struct {
	Level string `yaml:"level"`

	// Optional file to write logs into instead of stderr. The file is
	// rotated when it grows beyond MaxSize megabytes.
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
}

var errMissingContract = errors.New("token contract is not configured")

func readConfig(path string) (*config, error) {
	var c config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		err = yaml.Unmarshal(data, &c)
		if err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	if c.DB.Type == "" {
		c.DB.Type = dbconfig.InMemoryDB
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.RPC.DialTimeout <= 0 {
		c.RPC.DialTimeout = defaultDialTimeout
	}
	if c.RPC.RequestTimeout <= 0 {
		c.RPC.RequestTimeout = defaultRequestTimeout
	}
	if c.RPC.WaitTimeout <= 0 {
		c.RPC.WaitTimeout = defaultWaitTimeout
	}

	return &c, nil
}

func (x *config) contractHash() (util.Uint160, error) {
	if x.Contract == "" {
		return util.Uint160{}, errMissingContract
	}

	return parseAccount(x.Contract)
}

func newLogger(c loggerConfig) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logger level: %w", err)
	}

	if c.File != "" {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
		})

		return zap.New(zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), w, lvl)), nil
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Sampling = nil

	return zc.Build()
}

// parseAccount decodes account from Neo address or from LE hex string of
// the script hash.
func parseAccount(s string) (util.Uint160, error) {
	res, err := address.StringToUint160(s)
	if err == nil {
		return res, nil
	}

	res, errHex := util.Uint160DecodeStringLE(s)
	if errHex != nil {
		return res, fmt.Errorf("invalid account %q: neither address (%v) nor hex (%v)", s, err, errHex)
	}

	return res, nil
}
