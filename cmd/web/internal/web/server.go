package web

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"thirdcoast.systems/xclip/cmd/web/handlers/api/media_api"
	"thirdcoast.systems/xclip/internal/config"
	"thirdcoast.systems/xclip/internal/downloads"
	"thirdcoast.systems/xclip/pkg/ytdlp"
)

type Webserver struct {
	*echo.Echo
	cfg     *config.Config
	client  *ytdlp.Client
	manager *downloads.Manager
}

func NewWebserver(cfg *config.Config) (*Webserver, error) {
	e := echo.New()

	client := ytdlp.New()
	client.Path = cfg.YtdlpPath
	if strings.TrimSpace(cfg.YtdlpExtractorArgs) != "" {
		client.ExtraArgs = []string{"--extractor-args", cfg.YtdlpExtractorArgs}
	}

	webserver := &Webserver{
		Echo:    e,
		cfg:     cfg,
		client:  client,
		manager: downloads.NewManager(cfg.DownloadDir, client),
	}

	webserver.registerRoutes()
	webserver.setupMiddleware()

	return webserver, nil
}

func (s *Webserver) setupMiddleware() {
	s.HideBanner = true
	s.HidePort = true
	s.Use(middleware.BodyLimit("64K"))
	s.Use(middleware.Recover())
	s.Use(middleware.RequestID())
	s.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			slog.Info("request", fields...)
			return nil
		},
	}))
}

func (s *Webserver) registerRoutes() {
	s.POST("/get_video_info", media_api.HandleVideoInfo(s.client))
	s.POST("/stream_download", media_api.HandleStreamDownload(s.manager))

	// Health check
	s.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "ok")
	})

	// Front-end page. The page itself is a plain static bundle.
	s.File("/", "static/index.html")
	s.Static("/static", "static")
}
