// Package config resolves go-restdoc settings from defaults, a config file,
// the environment and command-line flags, in that order.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/agentflare-ai/go-restdoc/internal/docerr"
	"github.com/agentflare-ai/go-restdoc/internal/logging"
	"github.com/agentflare-ai/go-restdoc/resource"
)

// Environment variable names.
const (
	EnvConfig   = "RESTDOC_CONFIG"
	EnvRoot     = "RESTDOC_ROOT"
	EnvAddr     = "RESTDOC_ADDR"
	EnvLogLevel = "RESTDOC_LOG_LEVEL"
	EnvLogFile  = "RESTDOC_LOG_FILE"
	EnvLanguage = "RESTDOC_LANGUAGE"
	EnvTitle    = "RESTDOC_TITLE"
)

// Config captures every setting after defaults, the config file, the
// environment and flag overrides have been merged.
type Config struct {
	Root           string             `yaml:"root"`
	Addr           string             `yaml:"addr"`
	Title          string             `yaml:"title"`
	CSS            string             `yaml:"css"`
	Footer         string             `yaml:"footer"`
	TemplateFile   string             `yaml:"template_file"`
	Index          bool               `yaml:"index"`
	Language       string             `yaml:"language"`
	MaxSlugLength  int                `yaml:"max_slug_length"`
	Verbs          resource.VerbTable `yaml:"verbs"`
	LogLevel       string             `yaml:"log_level"`
	LogFile        string             `yaml:"log_file"`
	OpenAPITitle   string             `yaml:"openapi_title"`
	OpenAPIVersion string             `yaml:"openapi_version"`

	// Path is the config file the values were read from, if any.
	Path string `yaml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Root:           ".",
		Addr:           ":8080",
		Index:          true,
		Language:       "en",
		Verbs:          resource.DefaultVerbTable(),
		LogLevel:       "info",
		OpenAPIVersion: "0.0.0",
	}
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a YAML or JSON config file (env "+EnvConfig+")")
	fs.String("root", "", "REST root directory holding the resource tree (env "+EnvRoot+")")
	fs.String("log-level", "", "Log level: debug, info, warn or error (env "+EnvLogLevel+")")
	fs.String("log-file", "", "Also write logs to this rotated file (env "+EnvLogFile+")")
	fs.String("lang", "", "Language for page labels, e.g. en or pt (env "+EnvLanguage+")")
	fs.String("title", "", "Page title (env "+EnvTitle+")")
	fs.String("css", "", "Stylesheet URL linked from every page")
	fs.String("footer", "", "HTML inserted into the page footer")
	fs.String("template", "", "Page template file with %<name> placeholders")
	fs.Bool("index", true, "Include the navigation index of all resources")
	fs.Int("max-slug-length", 0, "Cap on generated heading ids (0 keeps the default)")
}

// Load resolves a Config. flags may be nil; getenv nil means os.Getenv.
func Load(flags *pflag.FlagSet, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Default()

	path := getenv(EnvConfig)
	if flags != nil && flags.Changed("config") {
		value, err := flags.GetString("config")
		if err != nil {
			return nil, err
		}
		path = value
	}
	if path = strings.TrimSpace(path); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv(getenv)
	if flags != nil {
		if err := cfg.ApplyFlags(flags); err != nil {
			return nil, err
		}
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyFile merges the YAML (or JSON) document at path. Unknown fields are
// rejected.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return docerr.Wrap(err, docerr.KindUsage, path, "read config file")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return docerr.Wrap(err, docerr.KindUsage, path, "parse config file")
	}
	c.Path = path
	return nil
}

// ApplyEnv overrides fields from RESTDOC_* variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	for name, dst := range map[string]*string{
		EnvRoot:     &c.Root,
		EnvAddr:     &c.Addr,
		EnvLogLevel: &c.LogLevel,
		EnvLogFile:  &c.LogFile,
		EnvLanguage: &c.Language,
		EnvTitle:    &c.Title,
	} {
		if value := strings.TrimSpace(getenv(name)); value != "" {
			*dst = value
		}
	}
}

// ApplyFlags overrides fields from flags the user set explicitly. Flags not
// defined on fs are ignored.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	for name, dst := range map[string]*string{
		"root":      &c.Root,
		"addr":      &c.Addr,
		"log-level": &c.LogLevel,
		"log-file":  &c.LogFile,
		"lang":      &c.Language,
		"title":     &c.Title,
		"css":       &c.CSS,
		"footer":    &c.Footer,
		"template":  &c.TemplateFile,
	} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = value
	}
	if flags.Changed("index") {
		value, err := flags.GetBool("index")
		if err != nil {
			return err
		}
		c.Index = value
	}
	if flags.Changed("max-slug-length") {
		value, err := flags.GetInt("max-slug-length")
		if err != nil {
			return err
		}
		c.MaxSlugLength = value
	}
	return nil
}

// Normalize trims values and fills empty ones with defaults.
func (c *Config) Normalize() {
	c.Root = strings.TrimSpace(c.Root)
	if c.Root != "" {
		c.Root = filepath.Clean(c.Root)
	}
	c.Addr = strings.TrimSpace(c.Addr)
	c.Title = strings.TrimSpace(c.Title)
	c.CSS = strings.TrimSpace(c.CSS)
	c.TemplateFile = strings.TrimSpace(c.TemplateFile)
	c.Language = strings.TrimSpace(c.Language)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFile = strings.TrimSpace(c.LogFile)
	if len(c.Verbs) == 0 {
		c.Verbs = resource.DefaultVerbTable()
	}
	c.Verbs.Normalize()
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Root == "" {
		return docerr.New(docerr.KindUsage, "", "root is required (set via --root, "+EnvRoot+" or config file)")
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		return docerr.Wrap(err, docerr.KindUsage, c.Root, "root")
	}
	if !info.IsDir() {
		return docerr.New(docerr.KindUsage, c.Root, "root is not a directory")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxSlugLength < 0 {
		return docerr.Errorf(docerr.KindUsage, "", "max slug length must not be negative, got %d", c.MaxSlugLength)
	}
	return c.Verbs.Validate()
}

// Template returns the contents of TemplateFile, or "" when none is set.
func (c *Config) Template() (string, error) {
	if c.TemplateFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.TemplateFile)
	if err != nil {
		return "", docerr.Wrap(err, docerr.KindIO, c.TemplateFile, "read template")
	}
	return string(data), nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped and variables already set win.
func LoadDotEnv(files ...string) error {
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return docerr.Wrap(err, docerr.KindUsage, strings.Join(present, ","), "load env file")
	}
	return nil
}
