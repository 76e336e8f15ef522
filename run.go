package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentflare-ai/go-restdoc/apidocs"
	"github.com/agentflare-ai/go-restdoc/internal/config"
	"github.com/agentflare-ai/go-restdoc/internal/docerr"
	"github.com/agentflare-ai/go-restdoc/internal/logging"
)

type cliApp struct {
	stdout io.Writer
}

// session is the resolved configuration and logger of one command run.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	close  func()
}

func run(argv []string, stdout io.Writer) error {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(normalizeLegacyArgs(argv))
	return cmd.Execute()
}

func (app *cliApp) start(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(cmd.Flags(), nil)
	if err != nil {
		return nil, err
	}
	logger, closeFn, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration resolved",
		zap.String("root", cfg.Root),
		zap.String("config", cfg.Path),
		zap.String("language", cfg.Language))
	return &session{cfg: cfg, logger: logger, close: closeFn}, nil
}

func (s *session) assembler() *apidocs.Assembler {
	return apidocs.New(s.cfg.Root,
		apidocs.WithVerbTable(s.cfg.Verbs),
		apidocs.WithRenderer(newRenderer(s.cfg)),
		apidocs.WithLocalizer(apidocs.NewLocalizer(apidocs.ParseLanguage(s.cfg.Language))),
		apidocs.WithLogger(s.logger),
	)
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return docerr.Wrap(err, docerr.KindIO, path, "create output directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return docerr.Wrap(err, docerr.KindIO, path, "write output")
	}
	return nil
}

// Long flags also accepted with a single dash, go tool style (-root ./rest).
var legacyLongFlagSet = map[string]struct{}{
	"root":      {},
	"config":    {},
	"lang":      {},
	"title":     {},
	"css":       {},
	"footer":    {},
	"template":  {},
	"index":     {},
	"output":    {},
	"format":    {},
	"addr":      {},
	"log-level": {},
	"log-file":  {},
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	modified := false
	converted := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			converted = append(converted, args[i:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") || len(arg) <= 2 {
			converted = append(converted, arg)
			continue
		}
		name, value, hasValue := strings.Cut(arg[1:], "=")
		if _, ok := legacyLongFlagSet[name]; ok {
			if hasValue {
				converted = append(converted, "--"+name+"="+value)
			} else {
				converted = append(converted, "--"+name)
			}
			modified = true
			continue
		}
		converted = append(converted, arg)
	}
	if !modified {
		return args
	}
	return converted
}
