package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	lib "github.com/theoremus-urban-solutions/fleet-tracks"
	"github.com/theoremus-urban-solutions/fleet-tracks/cache"
	"github.com/theoremus-urban-solutions/fleet-tracks/config"
	"github.com/theoremus-urban-solutions/fleet-tracks/gtfsrt"
	"github.com/theoremus-urban-solutions/fleet-tracks/internal"
	"github.com/theoremus-urban-solutions/fleet-tracks/source"
	"github.com/theoremus-urban-solutions/fleet-tracks/utils"
)

func main() {
	mode := flag.String("mode", "movie", "movie|serve|encode|record")
	configPath := flag.String("config", "", "path to config.yml (default: ./config.yml or ./config/config.yml)")
	mapName := flag.String("map", "", "map name from config.maps[] (overrides config)")
	start := flag.String("start", "", "range start, YYYY-MM-DD or YYYY-MM-DDTHH:MM UTC (overrides config)")
	end := flag.String("end", "", "range end, YYYY-MM-DD or YYYY-MM-DDTHH:MM UTC (overrides config)")
	format := flag.String("format", "text", "encode output: text|json")
	noVideo := flag.Bool("no-video", false, "write frames only")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	internal.InitLogging(cfg.Logging)
	log := internal.Logger()

	if *start != "" {
		cfg.Movie.Start = *start
	}
	if *end != "" {
		cfg.Movie.End = *end
	}
	if *noVideo {
		cfg.Movie.RenderVideo = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "movie":
		err = runMovie(ctx, cfg, pick(*mapName, cfg.Movie.Map))
	case "serve":
		err = runServe(ctx, cfg, pick(*mapName, cfg.Page.Map))
	case "encode":
		err = runEncode(ctx, cfg, pick(*mapName, cfg.Page.Map), *format)
	case "record":
		err = runRecord(ctx, cfg)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Str("mode", *mode).Msg("failed")
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.AppConfig, error) {
	var paths []string
	if path != "" {
		paths = append(paths, path)
	}
	cfg, err := config.LoadAppConfig(paths...)
	if errors.Is(err, os.ErrNotExist) && path == "" {
		return config.Parse(nil)
	}
	return cfg, err
}

func pick(override, configured string) string {
	if override != "" {
		return override
	}
	return configured
}

func runMovie(ctx context.Context, cfg *config.AppConfig, mapName string) error {
	m, err := cfg.Map(mapName)
	if err != nil {
		return err
	}
	proj, err := m.Projection()
	if err != nil {
		return err
	}
	timing, err := cfg.Movie.Timing()
	if err != nil {
		return err
	}
	src, closeSrc, err := source.FromConfig(cfg.Source)
	if err != nil {
		return err
	}
	defer func() { _ = closeSrc() }()

	op := &lib.MovieOperator{
		Source:     src,
		Projection: proj,
		BaseMap:    baseMap(m),
		Timing:     timing,
		Palette:    cfg.ColorPalette(),
		Style:      cfg.Drawing.Style(),
		Label:      cfg.Timer.Label(),
		OutputDir:  cfg.Movie.OutputDir,
		Workers:    cfg.Movie.Workers,
		Chunk:      chunk(cfg.Source),
		Video:      cfg.Movie.Video(),
		Progress:   cfg.Movie.Progress,
	}
	res, err := op.Shot(ctx)
	if err != nil {
		return err
	}
	fmt.Println(pick(res.Video, res.FramesDir))
	return nil
}

func runServe(ctx context.Context, cfg *config.AppConfig, mapName string) error {
	page, closeAll, err := pageSource(cfg, mapName)
	if err != nil {
		return err
	}
	defer closeAll()
	return lib.NewServer(cfg.Server, page).Run(ctx)
}

func runEncode(ctx context.Context, cfg *config.AppConfig, mapName, format string) error {
	start, end, err := utils.ParseTimeRange(cfg.Movie.Start, cfg.Movie.End)
	if err != nil {
		return err
	}
	page, closeAll, err := pageSource(cfg, mapName)
	if err != nil {
		return err
	}
	defer closeAll()
	switch format {
	case "json":
		data, err := page.JSON(ctx, start, end)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "text":
		payload, err := page.Track(ctx, start, end)
		if err != nil {
			return err
		}
		fmt.Println(payload)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

func runRecord(ctx context.Context, cfg *config.AppConfig) error {
	if cfg.GTFSRT.VehiclePositionsURL == "" {
		return errors.New("gtfsrt.vehiclePositionsURL is not set")
	}
	dir := pick(cfg.Source.ArchiveDir, "archive")
	r := &gtfsrt.Recorder{
		Client:   gtfsrt.NewClient(time.Duration(cfg.GTFSRT.TimeoutMS) * time.Millisecond),
		URL:      cfg.GTFSRT.VehiclePositionsURL,
		Dir:      dir,
		Interval: time.Duration(cfg.GTFSRT.ReadIntervalMS) * time.Millisecond,
		Compress: true,
		OnSnapshot: func(path string, positions int) {
			internal.Logger().Info().Str("path", path).Int("positions", positions).Msg("snapshot archived")
		},
	}
	internal.Logger().Info().Str("url", r.URL).Str("dir", dir).Dur("interval", r.Interval).Msg("recording vehicle positions")
	return r.Run(ctx)
}

func pageSource(cfg *config.AppConfig, mapName string) (*lib.PageDataSource, func(), error) {
	m, err := cfg.Map(mapName)
	if err != nil {
		return nil, nil, err
	}
	proj, err := m.Projection()
	if err != nil {
		return nil, nil, err
	}
	src, closeSrc, err := source.FromConfig(cfg.Source)
	if err != nil {
		return nil, nil, err
	}
	store, err := cache.FromConfig(cfg.Cache)
	if err != nil {
		_ = closeSrc()
		return nil, nil, err
	}
	closeAll := func() {
		if err := store.Close(); err != nil {
			internal.Logger().Warn().Err(err).Msg("closing payload cache")
		}
		_ = closeSrc()
	}
	return lib.NewPageDataSource(src, proj, store, chunk(cfg.Source)), closeAll, nil
}

func chunk(cfg config.SourceConfig) time.Duration {
	if cfg.ChunkMin <= 0 {
		return source.DefaultChunk
	}
	return time.Duration(cfg.ChunkMin) * time.Minute
}
