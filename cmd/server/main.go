// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/clusterview/clusterview/internal/api"
	"github.com/clusterview/clusterview/internal/config"
	"github.com/clusterview/clusterview/internal/logging"
	"github.com/clusterview/clusterview/internal/media"
	"github.com/clusterview/clusterview/internal/storage"
	"github.com/clusterview/clusterview/internal/supervisor"
)

func main() {
	var (
		addr       = flag.String("addr", "", "listen address, overrides server.host and server.port")
		configPath = flag.String("config", "", "path to config file")
		noBrowser  = flag.Bool("no-browser", false, "do not open the browser")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	media.Configure(cfg.Media.FetchTimeout, cfg.Media.BreakerThreshold)

	location := storage.RecentAlias
	if flag.NArg() > 0 {
		location = flag.Arg(0)
	}
	cacheDir, uuid := resolveLocation(cfg.Cache.Dir, location)

	loader, err := storage.NewLoader(uuid, cacheDir)
	if err != nil {
		logging.Fatal().Err(err).Str("location", location).Msg("could not open view")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mediaDir, err := resolveMediaDir(ctx, loader)
	if err != nil {
		logging.Warn().Err(err).Msg("could not resolve a media directory, /media is not mounted")
	}

	listenAddr := *addr
	if listenAddr == "" {
		listenAddr = fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		logging.Fatal().Err(err).Str("addr", listenAddr).Msg("could not bind listen address")
	}

	server := &http.Server{
		Handler:      api.NewRouter(api.RouterConfig{CacheDir: cacheDir, MediaDir: mediaDir, RateLimit: cfg.Server.RateLimit}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	sup := supervisor.New(logging.NewSlogLogger(), supervisor.Config{ShutdownTimeout: cfg.Server.ShutdownTimeout})
	sup.Add(supervisor.NewHTTPService(server, listener, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	errCh := sup.ServeBackground(ctx)

	url := fmt.Sprintf("http://%s/views/%s", listener.Addr(), loader.UUID)
	logging.Info().Str("url", url).Str("uuid", loader.UUID).Str("cache_dir", cacheDir).Msg("serving view")
	if cfg.Server.OpenBrowser && !*noBrowser {
		if err := openBrowser(url); err != nil {
			logging.Warn().Err(err).Msg("could not open browser")
		}
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("shutdown error")
		}
	}
	if unstopped, _ := sup.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("service failed to stop in time")
		}
	}
	logging.Info().Msg("stopped")
}

// resolveLocation interprets the positional argument. A path to an
// existing view directory selects that view; anything else is treated as
// a uuid (or the "recent" alias) within the configured cache.
func resolveLocation(cacheDir, location string) (string, string) {
	if info, err := os.Stat(location); err == nil && info.IsDir() {
		if _, err := os.Stat(filepath.Join(location, "config.json")); err == nil {
			abs, err := filepath.Abs(location)
			if err == nil {
				return filepath.Dir(abs), filepath.Base(abs)
			}
		}
	}
	return cacheDir, location
}

// resolveMediaDir determines the directory to mount under /media. The
// saved config records the shared media prefix; older caches without one
// get it derived from a sample of media values.
func resolveMediaDir(ctx context.Context, loader *storage.Loader) (string, error) {
	cfg, err := loader.LoadConfig()
	if err != nil {
		return "", err
	}
	if cfg.CommonMediaPath != nil && *cfg.CommonMediaPath != "" {
		return *cfg.CommonMediaPath, nil
	}

	sample, err := loader.SampleMedia(ctx, 10000)
	if err != nil {
		return "", err
	}
	if len(sample) == 0 {
		return "", nil
	}
	first := sample[0]
	if strings.HasPrefix(first, "http") || strings.HasPrefix(first, "s3://") || strings.HasPrefix(first, "/media") {
		return "", nil
	}
	return commonPath(sample), nil
}

// commonPath returns the longest shared directory prefix of the given
// paths.
func commonPath(values []string) string {
	segments := strings.Split(values[0], "/")
	n := len(segments) - 1
	for _, v := range values[1:] {
		other := strings.Split(v, "/")
		if len(other) < n {
			n = len(other)
		}
		for i := 0; i < n; i++ {
			if segments[i] != other[i] {
				n = i
				break
			}
		}
	}
	return strings.Join(segments[:n], "/")
}

// openBrowser launches the platform's default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
