// chickguard - monitor brooder comfort from thermal footage
//  Copyright (C) 2026, The ChickGuard Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	cptv "github.com/TheCacophonyProject/go-cptv"
	arg "github.com/alexflint/go-arg"
	"github.com/coreos/go-systemd/daemon"
	"github.com/lmittmann/tint"
	"gocv.io/x/gocv"
	yaml "gopkg.in/yaml.v2"

	"github.com/chickguard/chickguard/alert"
	"github.com/chickguard/chickguard/analysis"
	"github.com/chickguard/chickguard/blob"
	"github.com/chickguard/chickguard/capture"
	"github.com/chickguard/chickguard/clip"
	"github.com/chickguard/chickguard/config"
	"github.com/chickguard/chickguard/frameloop"
	"github.com/chickguard/chickguard/headers"
	"github.com/chickguard/chickguard/history"
	"github.com/chickguard/chickguard/httpapi"
	"github.com/chickguard/chickguard/location"
	"github.com/chickguard/chickguard/source"
	"github.com/chickguard/chickguard/stream"
)

var version = "<not set>"

type Args struct {
	ConfigFile string `arg:"-c,--config" help:"path to configuration file"`
	Video      string `arg:"--video" help:"analyse this video file instead of the configured source"`
	Timestamps bool   `arg:"-t,--timestamps" help:"include timestamps in log output"`
	Verbose    bool   `arg:"-v,--verbose" help:"make logging more verbose"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	args.ConfigFile = config.DefaultFile
	arg.MustParse(&args)
	return args
}

func main() {
	err := runMain()
	if err != nil {
		log.Fatal(err)
	}
}

func setupLogging(args Args) {
	opts := &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: "15:04:05",
	}
	if args.Verbose {
		opts.Level = slog.LevelDebug
	}
	if !args.Timestamps {
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		}
	}
	// log output goes through the handler from here on.
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, opts)))
}

func runMain() error {
	args := procArgs()
	setupLogging(args)

	log.Printf("running version: %s", version)
	conf, err := config.ParseConfigFile(args.ConfigFile)
	if err != nil {
		return err
	}
	if args.Video != "" {
		conf.Source.Kind = source.KindVideo
		conf.Source.File = args.Video
	}
	if args.Verbose {
		conf.Detector.Verbose = true
	}
	if !conf.Source.Live() && conf.Source.Kind == source.KindVideo && conf.HTTP.VideoFile == "" {
		conf.HTTP.VideoFile = conf.Source.File
	}
	logConfig(conf)

	device := loadDevice(conf)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := source.Open(conf.Source)
	if err != nil {
		return err
	}
	defer src.Close()
	info := src.Describe()
	log.Printf("camera: %s %s %dx%d @ %d fps", info.Brand(), info.Model(), info.ResX(), info.ResY(), info.FPS())

	detector := blob.NewDetector(conf.Detector)
	defer detector.Close()
	analyser := analysis.New(detector)

	loop := frameloop.NewLoop(conf.BufferFrames)
	defer loop.Close()

	var (
		status      func() analysis.Report
		frames      stream.FrameFunc
		addListener func(analysis.Listener)
		workers     []func(context.Context)
	)
	if conf.Source.Live() {
		slot := frameloop.NewSlot()
		defer slot.Close()
		live := analysis.NewLive(slot, analyser, conf.Live.MetricsOnly)
		status = live.Status
		addListener = live.AddListener
		frames = func(out *gocv.Mat) (int, bool) {
			stamp, ok := slot.Load(out)
			return stamp.Seq, ok
		}

		poller := &capture.Poller{
			Status:  live.Status,
			Summary: live.TakeSummary,
			Conf:    conf.Capture,
		}
		workers = append(workers, capture.New(src, slot, loop, conf.Capture).Run, poller.Run)
	} else {
		recorded := analysis.NewRecorded(src, analyser, loop)
		defer recorded.Close()
		status = recorded.ProcessNext
		addListener = recorded.AddListener
		frames = recorded.LatestFrame
		workers = append(workers, func(ctx context.Context) {
			logSummaries(ctx, recorded.TakeSummary, conf.Capture.LogInterval)
		})
	}

	if conf.Alerts.Enabled {
		w, err := conf.Alerts.Window(conf.Location.Latitude, conf.Location.Longitude)
		if err != nil {
			return err
		}
		addListener(alert.New(alert.EventReporter{}, w))
	}

	if conf.Clips.Enabled {
		clipper, fileRecorder, err := newClipper(conf, device, info, loop)
		if err != nil {
			return err
		}
		defer fileRecorder.Stop()
		defer clipper.Wait()
		addListener(clipper)
	}

	var store history.Store
	if conf.History.Enabled() {
		pg, err := history.Open(ctx, conf.History.URL)
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		store = pg
		rec := history.NewRecorder(pg, conf.History.Interval)
		addListener(rec)
		workers = append(workers, rec.Run)
	}

	streamer := stream.New(frames, detector, conf.Stream)
	workers = append(workers, streamer.Run)

	// Everything deferred above is released only after the workers
	// have returned.
	wg := startWorkers(ctx, workers)

	snapshots := newSnapshotter(conf.Clips.OutputDir, frames)
	log.Println("starting d-bus service")
	stopService, err := startService(status, snapshots, info)
	if err != nil {
		log.Printf("d-bus service not started: %v", err)
		stopService = func() {}
	}

	server := httpapi.New(conf.HTTP, status, streamer, store)
	daemon.SdNotify(false, daemon.SdNotifyReady)
	err = server.Run(ctx)

	stopService()
	stop()
	wg.Wait()
	return err
}

// startWorkers runs each worker in its own goroutine. The workers must
// return once ctx is done.
func startWorkers(ctx context.Context, workers []func(context.Context)) *sync.WaitGroup {
	wg := new(sync.WaitGroup)
	for _, run := range workers {
		wg.Add(1)
		go func(run func(context.Context)) {
			defer wg.Done()
			run(ctx)
		}(run)
	}
	return wg
}

func newClipper(conf *config.Config, device *location.Device, info *headers.HeaderInfo, loop *frameloop.Loop) (*clip.Clipper, *clip.CPTVFileRecorder, error) {
	if err := os.MkdirAll(conf.Clips.OutputDir, 0755); err != nil {
		return nil, nil, err
	}
	log.Println("deleting temp files")
	if err := clip.DeleteTempFiles(conf.Clips.OutputDir); err != nil {
		return nil, nil, err
	}

	detectorYAML, err := yaml.Marshal(conf.Detector)
	if err != nil {
		return nil, nil, err
	}
	header := cptv.Header{
		DeviceName:   device.Name,
		MotionConfig: string(detectorYAML),
		Latitude:     conf.Location.Latitude,
		Longitude:    conf.Location.Longitude,
		Altitude:     conf.Location.Altitude,
		Accuracy:     conf.Location.Accuracy,
		Brand:        info.Brand(),
		Model:        info.Model(),
	}
	fileRecorder := clip.NewCPTVFileRecorder(&conf.Clips, header)

	var recorder clip.Recorder = fileRecorder
	if conf.Clips.Throttler.ApplyThrottling {
		fps := info.FPS()
		if fps < 1 {
			fps = 1
		}
		recorder = clip.NewThrottledRecorder(
			fileRecorder,
			&conf.Clips.Throttler,
			conf.BufferFrames,
			fps,
			clip.ThrottledEventRecorder{Sender: alert.EventReporter{}})
	}
	return clip.NewClipper(recorder, loop, info), fileRecorder, nil
}

func loadDevice(conf *config.Config) *location.Device {
	if conf.DeviceConfigDir == "" {
		return new(location.Device)
	}
	device, err := location.LoadDevice(conf.DeviceConfigDir, &conf.Location)
	if err != nil {
		log.Printf("no device config: %v", err)
		return new(location.Device)
	}
	log.Printf("device: %s (%d)", device.Name, device.ID)
	return device
}

func logSummaries(ctx context.Context, summary func() string, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if s := summary(); s != "" {
			log.Printf("readings: %s", s)
		}
	}
}

func logConfig(conf *config.Config) {
	log.Printf("source: %s %s", conf.Source.Kind, conf.Source.File)
	log.Printf("detector: %+v", conf.Detector)
	log.Printf("frame buffer: %d frames", conf.BufferFrames)
	log.Printf("stream: %+v", conf.Stream)
	if conf.Clips.Enabled {
		log.Printf("clips: %s (min disk space %dMB)", conf.Clips.OutputDir, conf.Clips.MinDiskSpace)
		log.Printf("throttler: %+v", conf.Clips.Throttler)
	}
	if conf.Alerts.Enabled && conf.Alerts.WindowStart != "" {
		log.Printf("alert window: %s to %s", conf.Alerts.WindowStart, conf.Alerts.WindowEnd)
	}
	if conf.History.Enabled() {
		log.Printf("history: every %s", conf.History.Interval)
	}
	if conf.Live.MetricsOnly {
		log.Print("live: frame statistics only")
	}
	log.Printf("http: %s", conf.HTTP.Address)
}
