package krokicli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/krokify/krokify/htmlembed"
	"github.com/krokify/krokify/lib/log"
	"github.com/krokify/krokify/lib/version"
	"github.com/krokify/krokify/lib/xmain"
	"github.com/krokify/krokify/site"
)

func Run(ctx context.Context, ms *xmain.State) (err error) {
	ctx = log.WithDefault(ctx)

	urlFlag := ms.Opts.String("KROKI_URL", "url", "u", "", "rendering backend base URL (default https://kroki.io)")
	retriesFlag, err := ms.Opts.Int64("KROKI_HTTP_RETRIES", "retries", "r", -1, "retry attempts for transient backend failures (default 3)")
	if err != nil {
		return err
	}
	timeoutFlag, err := ms.Opts.Int64("KROKI_HTTP_TIMEOUT", "timeout", "t", -1, "per-request timeout in seconds (default 15)")
	if err != nil {
		return err
	}
	concurrencyFlag, err := ms.Opts.Int64("KROKI_MAX_CONCURRENT_DOCS", "concurrency", "j", -1, "maximum documents processed at once (default 8)")
	if err != nil {
		return err
	}
	configFlag := ms.Opts.String("KROKIFY_CONFIG", "config", "c", "", "site configuration file (default <dir>/krokify.yml when present)")
	debugFlag, err := ms.Opts.Bool("DEBUG", "debug", "d", false, "print debug logs")
	if err != nil {
		return err
	}
	helpFlag, err := ms.Opts.Bool("", "help", "h", false, "print usage")
	if err != nil {
		return err
	}
	versionFlag, err := ms.Opts.Bool("", "version", "v", false, "print version")
	if err != nil {
		return err
	}

	err = ms.Opts.Flags.Parse(ms.Opts.Args)
	if err != nil && !errors.Is(err, pflag.ErrHelp) {
		return xmain.UsageErrorf("failed to parse flags: %v", err)
	}
	if errors.Is(err, pflag.ErrHelp) || *helpFlag {
		help(ms)
		return nil
	}
	if *versionFlag {
		fmt.Fprintln(ms.Stdout, version.Version)
		return nil
	}
	if *debugFlag {
		ctx = log.With(ctx, log.New(ms.Stderr, slog.LevelDebug))
		ms.Env.Setenv("DEBUG", "1")
	}

	if len(ms.Opts.Flags.Args()) == 0 {
		help(ms)
		return nil
	}
	if len(ms.Opts.Flags.Args()) > 1 {
		return xmain.UsageErrorf("expected exactly one argument: the generated site directory")
	}
	root := ms.Opts.Flags.Arg(0)

	s, err := site.Load(root, *configFlag)
	if err != nil {
		return err
	}

	// Flags override the site configuration file.
	if *urlFlag != "" {
		s.SetParam(site.Namespace, "url", *urlFlag)
	}
	if *retriesFlag >= 0 {
		s.SetParam(site.Namespace, "http_retries", int(*retriesFlag))
	}
	if *timeoutFlag >= 0 {
		s.SetParam(site.Namespace, "http_timeout", int(*timeoutFlag))
	}
	if *concurrencyFlag >= 0 {
		s.SetParam(site.Namespace, "max_concurrent_docs", int(*concurrencyFlag))
	}

	if err := htmlembed.EmbedSite(ctx, s); err != nil {
		return err
	}
	return s.WriteBack()
}
