package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater"
	"github.com/hashicorp/go-multierror"
	"github.com/jessevdk/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/spam-check/app/storage"
	"github.com/umputun/spam-check/app/storage/engine"
	"github.com/umputun/spam-check/app/trainer"
	"github.com/umputun/spam-check/app/webapi"
	"github.com/umputun/spam-check/lib/model"
)

type options struct {
	Server struct {
		Listen       string        `long:"listen" env:"LISTEN" default:":8080" description:"listen address"`
		GuestLimit   int           `long:"guest-limit" env:"GUEST_LIMIT" default:"10" description:"guest checks per day per ip, 0 to disable guests"`
		HistoryLimit int           `long:"history-limit" env:"HISTORY_LIMIT" default:"100" description:"max records returned by history"`
		RecentSize   int           `long:"recent-size" env:"RECENT_SIZE" default:"100" description:"number of recent checks kept in memory"`
		CacheSize    int           `long:"cache-size" env:"CACHE_SIZE" default:"1000" description:"max cached check results"`
		CacheTTL     time.Duration `long:"cache-ttl" env:"CACHE_TTL" default:"1h" description:"cached check results ttl"`
	} `group:"server" namespace:"server" env-namespace:"SERVER"`

	Auth struct {
		AdminPasswd string            `long:"admin-passwd" env:"ADMIN_PASSWD" description:"password for admin user"`
		Users       map[string]string `long:"user" env:"USERS" env-delim:"," description:"user:password pairs"`
	} `group:"auth" namespace:"auth" env-namespace:"AUTH"`

	DB struct {
		URL     string `long:"url" env:"URL" description:"database url, sqlite file or postgres://, disabled if not set"`
		GID     string `long:"gid" env:"GID" default:"spam-check" description:"group id to keep data separated in shared database"`
		Retries int    `long:"retries" env:"RETRIES" default:"5" description:"connection attempts"`
	} `group:"db" namespace:"db" env-namespace:"DB"`

	Artifact struct {
		File string `long:"file" env:"FILE" default:"var/model.json" description:"trained model file"`
		DB   bool   `long:"db" env:"DB" description:"keep trained model in database instead of file"`
	} `group:"artifact" namespace:"artifact" env-namespace:"ARTIFACT"`

	Files struct {
		SamplesSpam string        `long:"samples-spam" env:"SAMPLES_SPAM" description:"extra spam samples file"`
		SamplesHam  string        `long:"samples-ham" env:"SAMPLES_HAM" description:"extra ham samples file"`
		Watch       bool          `long:"watch" env:"WATCH" description:"retrain model on samples files change"`
		WatchDelay  time.Duration `long:"watch-delay" env:"WATCH_DELAY" default:"1s" description:"delay before retrain on change"`
	} `group:"files" namespace:"files" env-namespace:"FILES"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable rotated checks log"`
		FileName   string `long:"file" env:"FILE"  default:"spam-check.log" description:"location of checks log"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Train bool `long:"train" env:"TRAIN" description:"retrain model on start, even if trained model is available"`
	Dbg   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "local"

func main() {
	fmt.Printf("spam-check %s\n", revision)
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) || flagsErr.Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	setupLog(opts.Dbg, secrets(opts)...)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("[WARN] interrupt signal")
		cancel()
	}()

	if err := execute(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, opts options) (err error) {
	var db *engine.SQL
	if opts.DB.URL != "" {
		if db, err = connectDB(ctx, opts); err != nil {
			return err
		}
	}

	checkLog, err := makeCheckLogWriter(opts)
	if err != nil {
		return fmt.Errorf("can't make checks log writer: %w", err)
	}

	defer func() {
		errs := new(multierror.Error)
		if db != nil {
			errs = multierror.Append(errs, db.Close())
		}
		errs = multierror.Append(errs, checkLog.Close())
		if e := errs.ErrorOrNil(); e != nil {
			log.Printf("[WARN] shutdown: %v", e)
		}
	}()

	srvCfg := webapi.Config{
		Version:      revision,
		ListenAddr:   opts.Server.Listen,
		Users:        users(opts),
		GuestLimit:   opts.Server.GuestLimit,
		HistoryLimit: opts.Server.HistoryLimit,
		RecentSize:   opts.Server.RecentSize,
		CacheSize:    opts.Server.CacheSize,
		CacheTTL:     opts.Server.CacheTTL,
		CheckLog:     checkLog,
		Dbg:          opts.Dbg,
	}

	manager, err := makeManager(ctx, opts, db, &srvCfg)
	if err != nil {
		return err
	}
	srvCfg.Classifier = manager

	srv := webapi.NewServer(srvCfg)

	files := trainer.FileSamples{SpamFile: opts.Files.SamplesSpam, HamFile: opts.Files.SamplesHam}
	if opts.Files.Watch && len(files.Files()) > 0 {
		w := &trainer.Watcher{Files: files.Files(), Trainer: manager, Delay: opts.Files.WatchDelay, OnTrained: srv.ResetCache}
		go func() {
			if e := w.Run(ctx); e != nil {
				log.Printf("[WARN] samples watcher failed: %v", e)
			}
		}()
	}

	return srv.Run(ctx)
}

// makeManager builds stores and samples sources, sets history and samples to the server config,
// and makes the model manager with the model loaded or trained
func makeManager(ctx context.Context, opts options, db *engine.SQL, srvCfg *webapi.Config) (*model.Manager, error) {
	var store model.Store = model.NewFileStore(opts.Artifact.File)
	sources := trainer.Sources{trainer.FileSamples{SpamFile: opts.Files.SamplesSpam, HamFile: opts.Files.SamplesHam}}

	if opts.Artifact.DB && db == nil {
		return nil, errors.New("artifact in database requested, but database is not configured")
	}

	if db != nil {
		history, err := storage.NewHistory(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("can't make history storage: %w", err)
		}
		srvCfg.History = history

		samples, err := storage.NewSamples(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("can't make samples storage: %w", err)
		}
		srvCfg.Samples = samples
		sources = append(sources, samples)

		if opts.Artifact.DB {
			artifacts, err := storage.NewArtifacts(ctx, db)
			if err != nil {
				return nil, fmt.Errorf("can't make artifacts storage: %w", err)
			}
			store = artifacts
		}
	}

	manager := model.NewManager(model.Config{Store: store, Samples: sources})
	if opts.Train {
		if err := manager.Train(ctx); err != nil && manager.State() != model.Ready {
			return nil, fmt.Errorf("can't train model: %w", err)
		} else if err != nil {
			log.Printf("[WARN] model trained, but not saved: %v", err)
		}
	} else if err := manager.Load(ctx); err != nil {
		return nil, fmt.Errorf("can't load model: %w", err)
	}
	info := manager.Info()
	log.Printf("[INFO] model %s, source: %s, vocabulary: %d", info.State, info.Source, info.Vocabulary)
	return manager, nil
}

func connectDB(ctx context.Context, opts options) (db *engine.SQL, err error) {
	err = repeater.NewDefault(max(opts.DB.Retries, 1), time.Second).Do(ctx, func() error {
		var e error
		if db, e = engine.New(ctx, opts.DB.URL, opts.DB.GID); e != nil {
			log.Printf("[WARN] can't connect to database: %v", e)
		}
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}
	log.Printf("[INFO] database connected, type: %s, gid: %s", db.Type(), db.GID())
	return db, nil
}

// users returns basic auth users, admin is added if admin password is set
func users(opts options) map[string]string {
	res := map[string]string{}
	for user, passwd := range opts.Auth.Users {
		if user == webapi.AdminUser {
			log.Printf("[WARN] user %q is reserved, use --auth.admin-passwd", user)
			continue
		}
		res[user] = passwd
	}
	if opts.Auth.AdminPasswd != "" {
		res[webapi.AdminUser] = opts.Auth.AdminPasswd
	}
	return res
}

func secrets(opts options) []string {
	res := []string{}
	if opts.Auth.AdminPasswd != "" {
		res = append(res, opts.Auth.AdminPasswd)
	}
	for _, passwd := range opts.Auth.Users {
		if passwd != "" {
			res = append(res, passwd)
		}
	}
	if strings.HasPrefix(opts.DB.URL, "postgres") {
		if pos := strings.Index(opts.DB.URL, "@"); pos > 0 {
			if creds := opts.DB.URL[strings.Index(opts.DB.URL, "://")+3 : pos]; strings.Contains(creds, ":") {
				res = append(res, creds[strings.Index(creds, ":")+1:])
			}
		}
	}
	return res
}

// makeCheckLogWriter creates checks log writer to keep all checks as json lines.
// It parses options and makes lumberjack logger with rotation
func makeCheckLogWriter(opts options) (io.WriteCloser, error) {
	if !opts.Logger.Enabled {
		return nopWriteCloser{io.Discard}, nil
	}

	sizeParse := func(inp string) (uint64, error) {
		if inp == "" {
			return 0, errors.New("empty value")
		}
		for i, sfx := range []string{"k", "m", "g", "t"} {
			if strings.HasSuffix(inp, strings.ToUpper(sfx)) || strings.HasSuffix(inp, strings.ToLower(sfx)) {
				val, err := strconv.Atoi(inp[:len(inp)-1])
				if err != nil {
					return 0, fmt.Errorf("can't parse %s: %w", inp, err)
				}
				return uint64(float64(val) * math.Pow(float64(1024), float64(i+1))), nil
			}
		}
		return strconv.ParseUint(inp, 10, 64)
	}

	maxSize, err := sizeParse(opts.Logger.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("can't parse logger MaxSize: %w", err)
	}
	maxSize /= 1048576

	log.Printf("[INFO] checks log enabled for %s, max size %dM", opts.Logger.FileName, maxSize)
	return &lumberjack.Logger{
		Filename:   opts.Logger.FileName,
		MaxSize:    int(maxSize), // in MB
		MaxBackups: opts.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

func setupLog(dbg bool, secrets ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
