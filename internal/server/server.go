package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"kariakita/internal/config"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

// New は共通ミドルウェア付きの echo を作ってルートを登録する。
// logger は usecase / repository と同じものを渡す（nil なら echo の既定）。
func New(cfg config.Config, logger *log.Logger, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	if logger != nil {
		e.Logger = logger
	}
	e.Logger.SetLevel(ParseLogLevel(cfg.LogLevel))

	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	RegisterRoutes(e, cfg, h)
	return e
}

// Start はシグナルで ctx が終わるまで待ち、終わったら graceful shutdown する
func Start(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// "debug" / "info" / "warn" / "error" / "off"
func ParseLogLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
