package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xlab/closer"

	"sceneloop/internal/assets"
	"sceneloop/internal/config"
	"sceneloop/internal/graphics"
	"sceneloop/internal/host"
	"sceneloop/internal/session"
	"sceneloop/internal/stats"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	var (
		configPath  = flag.String("config", "", "optional yaml config file")
		statsAddr   = flag.String("stats", "", "serve frame stats on this address (e.g. :8089)")
		texturePath = flag.String("texture", "", "image to show on a quad behind the triangle")
		debug       = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
		cfg = *loaded
	}
	if *statsAddr != "" {
		cfg.StatsAddr = *statsAddr
	}
	config.SetFPSLimit(cfg.FPSLimit)

	if err := glfw.Init(); err != nil {
		log.Fatal().Err(err).Msg("glfw init")
	}
	// closer runs cleanups in reverse bind order, so terminate goes last
	closer.Bind(glfw.Terminate)

	window, err := host.NewWindow(cfg.Width, cfg.Height, cfg.Title, cfg.Backend)
	if err != nil {
		log.Fatal().Err(err).Msg("create window")
	}

	var srv *stats.Server
	if cfg.StatsAddr != "" {
		srv = stats.NewServer()
		ctx, cancel := context.WithCancel(context.Background())
		closer.Bind(cancel)
		go func() {
			if err := srv.Serve(ctx, cfg.StatsAddr); err != nil {
				log.Error().Err(err).Msg("stats server")
			}
		}()
		go srv.Run(ctx, 100*time.Millisecond)
	}

	tri := newTriangle()
	scene := graphics.NewGroup(tri)

	ctrl := session.New(window, session.Options{
		Scene: scene,
		Store: map[string]any{},
	})
	ctrl.SetCallbacks(session.Callbacks{
		OnStart: func(ctx *session.Context) {
			log.Info().Msg("session mounted")
			if *texturePath != "" {
				img, err := assets.LoadImage(ctx.Assets, *texturePath)
				if err != nil {
					log.Warn().Err(err).Msg("texture load failed")
					return
				}
				scene.Add(newTexturedQuad(img))
			}
		},
		OnUpdate: func(ctx *session.Context, dt float64) {
			tri.Spin(dt)
			if srv != nil {
				last := ctrl.LastFrame()
				srv.Publish(last.DeltaMS, last.UpdateMS, last.RenderMS)
			}
		},
		OnDestroy: func(ctx *session.Context) {
			log.Info().Msg("session unmounted")
		},
		OnLoadProgress: func(ctx *session.Context, item string, loaded, total int) {
			log.Info().Str("item", item).Int("loaded", loaded).Int("total", total).Msg("loading")
		},
		OnLoadError: func(ctx *session.Context, url string) {
			log.Warn().Str("url", url).Msg("asset failed")
		},
		OnLoad: func(ctx *session.Context) {
			log.Info().Msg("all assets loaded")
		},
	})

	// Mount
	if err := ctrl.Start(); err != nil {
		log.Fatal().Err(err).Msg("start session")
	}
	closer.Bind(ctrl.Stop)

	window.Handle().SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	window.Run()

	// Unmount before the window goes away
	closer.Close()
}
