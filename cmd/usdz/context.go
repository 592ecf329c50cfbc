package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/logicossoftware/go-usdz"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool
	inflateFlag *bool

	configOnce sync.Once
	config     *Config
	configErr  error
}

func newCommandContext(configFlag *string, verboseFlag, inflateFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
		inflateFlag: inflateFlag,
	}
}

func (c *commandContext) ensureConfig() (*Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = loadConfig(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if c.verboseFlag != nil && *c.verboseFlag {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// openPackage reads and decodes the USDZ file at path.
func (c *commandContext) openPackage(cmd *cobra.Command, path string) (*usdz.File, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opts := append(cfg.readOptions(), usdz.WithLogger(c.logger(cmd)))
	if c.inflateFlag != nil && *c.inflateFlag {
		opts = append(opts, usdz.WithInflate(true))
	}
	f, err := usdz.Parse(buf, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
