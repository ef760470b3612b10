package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dreamerjackson/salesintel/api"
	"github.com/dreamerjackson/salesintel/collect"
	"github.com/dreamerjackson/salesintel/config"
	"github.com/dreamerjackson/salesintel/extract"
	"github.com/dreamerjackson/salesintel/fetcher"
	"github.com/dreamerjackson/salesintel/generator"
	"github.com/dreamerjackson/salesintel/log"
	"github.com/dreamerjackson/salesintel/proxy"
	"github.com/dreamerjackson/salesintel/store"
	"github.com/dreamerjackson/salesintel/tasklib"
	"github.com/dreamerjackson/salesintel/template"
	"github.com/dreamerjackson/salesintel/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ServerCmd = &cobra.Command{
	Use:   "server",
	Short: "run http server.",
	Long:  "run http server.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run()
	},
}

func init() {
	ServerCmd.Flags().StringVar(
		&configPath, "config", config.DefaultPath, "set config file")

	ServerCmd.Flags().StringVar(
		&HTTPListenAddress, "http", "", "set HTTP listen address, overrides the config file")

	ServerCmd.Flags().StringVar(
		&podIP, "podip", "", "set pod ip, used to derive the run id node")
}

var configPath string
var HTTPListenAddress string
var podIP string

const shutdownTimeout = 5 * time.Second

func Run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// log
	logger, closer, err := log.Build(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()
	defer logger.Sync()
	logger.Info("log init end")

	// set zap global logger
	zap.ReplaceGlobals(logger)

	// fetcher
	fopts := []fetcher.Option{
		fetcher.WithTimeout(cfg.FetchTimeout()),
		fetcher.WithLogger(logger.Named("fetcher")),
	}
	if cfg.Fetcher.MaxBytes > 0 {
		fopts = append(fopts, fetcher.WithMaxBytes(cfg.Fetcher.MaxBytes))
	}
	if len(cfg.Fetcher.Proxy) > 0 {
		p, err := proxy.RoundRobinProxySwitcher(cfg.Fetcher.Proxy...)
		if err != nil {
			logger.Error("RoundRobinProxySwitcher failed", zap.Error(err))
		} else {
			fopts = append(fopts, fetcher.WithProxy(p))
		}
	}
	logger.Sugar().Info("proxy list: ", cfg.Fetcher.Proxy, " timeout: ", cfg.FetchTimeout())

	parser, err := extract.NewFeedParser(cfg.Feed.Parser)
	if err != nil {
		return err
	}

	node, err := generator.NewNode(podIP)
	if err != nil {
		return err
	}

	c, err := collect.New(
		collect.WithFetcher(fetcher.New(fopts...)),
		collect.WithFeedParser(parser),
		collect.WithIDGenerator(node),
		collect.WithLogger(logger.Named("collect")),
	)
	if err != nil {
		return err
	}

	// templates
	extra, err := cfg.TemplateSet()
	if err != nil {
		return err
	}
	reg := template.NewRegistry()
	tasklib.Seed(reg, extra...)
	logger.Info("templates registered", zap.Strings("names", reg.Names()))

	app, err := api.New(
		api.WithRegistry(reg),
		api.WithCollector(c),
		api.WithStore(store.New(store.WithLogger(logger.Named("store")))),
		api.WithLogger(logger.Named("api")),
		api.WithVersion(version.GetVersion()),
	)
	if err != nil {
		return err
	}

	addr := cfg.Server.HTTP
	if HTTPListenAddress != "" {
		addr = HTTPListenAddress
	}

	return RunHTTPServer(logger, addr, app.Handler())
}

// RunHTTPServer serves h on addr until SIGINT or SIGTERM.
func RunHTTPServer(logger *zap.Logger, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("start http server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
