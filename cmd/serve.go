package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/server"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the browser UI until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	engine, err := r.analysisEngine(cmd)
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "component", "web")
	opts := []web.Option{web.WithLogger(logger), web.WithTimeout(config.Spotify.Timeout())}
	if engine.HistoryEnabled() {
		history, err := r.historyStore(cmd)
		if err != nil {
			return err
		}
		opts = append(opts, web.WithHistory(history))
	}

	app, err := web.NewApp(engine, opts...)
	if err != nil {
		return err
	}

	host, port := config.Server.Host, config.Server.Port
	if cmd.IsSet("host") {
		host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		port = int(cmd.Int("port"))
	}
	if port < 0 || port > 65535 {
		return fmt.Errorf("%w: port %d out of range", shared.ErrInvalidArgument, port)
	}

	srv := server.NewServer(net.JoinHostPort(host, strconv.Itoa(port)), app.Handler(), logger)
	ln, err := srv.Listen()
	if err != nil {
		return err
	}

	url := "http://" + ln.Addr().String()
	r.writePlain("Serving on %s (Ctrl+C to stop)\n", url)

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "url", url, "error", err)
		}
	}

	return srv.Serve(ctx, ln)
}
