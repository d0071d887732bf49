// Package config collects the settings of a redirect run from defaults,
// .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/basp-group/basplib-redirect/countdown"
	"github.com/basp-group/basplib-redirect/navigation"
)

// EnvPrefix starts the name of every environment variable read by Load.
const EnvPrefix = "BASP_REDIRECT_"

// Surfaces and navigators the command line knows.
const (
	SurfaceStdout   = "stdout"
	SurfaceTerminal = "terminal"
	SurfaceNone     = "none"

	NavigatorBrowser = "browser"
	NavigatorPrint   = "print"
	NavigatorNone    = "none"
)

// Config holds everything needed to run a redirect.
type Config struct {
	Destination    string
	Seconds        int
	Interval       time.Duration
	Surface        string
	Navigator      string
	MonitorPort    int
	MonitorRefresh int
	TraceDB        string
	LogEvents      bool
	ParallelIDs    bool
}

// Default returns the fixed behaviour: five seconds, one tick per second,
// then the BASPLib home page.
func Default() Config {
	return Config{
		Destination:    countdown.DefaultDestination,
		Seconds:        countdown.DefaultSeconds,
		Interval:       countdown.DefaultInterval,
		Surface:        SurfaceStdout,
		Navigator:      NavigatorBrowser,
		MonitorPort:    -1,
		MonitorRefresh: 1,
	}
}

// Load starts from Default and applies the variables in files, then the
// process environment. Files that do not exist are skipped. Process
// environment wins over files.
func Load(files ...string) (Config, error) {
	fileVars := map[string]string{}

	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}

		vars, err := godotenv.Read(f)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", f, err)
		}

		for k, v := range vars {
			fileVars[k] = v
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}

		v, ok := fileVars[key]

		return v, ok
	}

	return FromLookup(lookup)
}

// FromLookup starts from Default and applies every BASP_REDIRECT_ variable
// that lookup finds.
func FromLookup(lookup func(key string) (string, bool)) (Config, error) {
	c := Default()

	if v, ok := lookup(EnvPrefix + "URL"); ok {
		c.Destination = v
	}

	if v, ok := lookup(EnvPrefix + "SECONDS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("%sSECONDS: %w", EnvPrefix, err)
		}
		c.Seconds = n
	}

	if v, ok := lookup(EnvPrefix + "INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("%sINTERVAL: %w", EnvPrefix, err)
		}
		c.Interval = d
	}

	if v, ok := lookup(EnvPrefix + "SURFACE"); ok {
		c.Surface = v
	}

	if v, ok := lookup(EnvPrefix + "NAVIGATOR"); ok {
		c.Navigator = v
	}

	if v, ok := lookup(EnvPrefix + "MONITOR_PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("%sMONITOR_PORT: %w", EnvPrefix, err)
		}
		c.MonitorPort = n
	}

	if v, ok := lookup(EnvPrefix + "MONITOR_REFRESH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("%sMONITOR_REFRESH: %w", EnvPrefix, err)
		}
		c.MonitorRefresh = n
	}

	if v, ok := lookup(EnvPrefix + "TRACE_DB"); ok {
		c.TraceDB = v
	}

	if v, ok := lookup(EnvPrefix + "LOG_EVENTS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("%sLOG_EVENTS: %w", EnvPrefix, err)
		}
		c.LogEvents = b
	}

	if v, ok := lookup(EnvPrefix + "PARALLEL_IDS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("%sPARALLEL_IDS: %w", EnvPrefix, err)
		}
		c.ParallelIDs = b
	}

	return c, nil
}

// Validate reports the first setting that cannot be run.
func (c Config) Validate() error {
	if err := navigation.CheckURL(c.Destination); err != nil {
		return err
	}

	if c.Seconds < 0 {
		return fmt.Errorf("seconds must not be negative, got %d", c.Seconds)
	}

	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}

	switch c.Surface {
	case SurfaceStdout, SurfaceTerminal, SurfaceNone:
	default:
		return fmt.Errorf("unknown surface %q", c.Surface)
	}

	switch c.Navigator {
	case NavigatorBrowser, NavigatorPrint, NavigatorNone:
	default:
		return fmt.Errorf("unknown navigator %q", c.Navigator)
	}

	if c.MonitorPort > 65535 {
		return fmt.Errorf("monitor port %d out of range", c.MonitorPort)
	}

	if c.MonitorRefresh < 1 {
		return fmt.Errorf("monitor refresh must be at least 1s, got %d", c.MonitorRefresh)
	}

	return nil
}
