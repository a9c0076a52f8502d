package config

import "github.com/spf13/pflag"

// Flag names.
const (
	FlagConfig            = "config"
	FlagServer            = "server"
	FlagCheckInterval     = "check-interval"
	FlagReconcileInterval = "reconcile-interval"
	FlagTimeout           = "timeout"
	FlagVerbose           = "verbose"
)

// RegisterFlags declares the console flags on fs with the built-in defaults
// shown in help output.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(FlagConfig, "c", "", "path to JSON config file")
	fs.StringP(FlagServer, "a", d.ServerEndpointAddr, "address and port to access server")
	fs.DurationP(FlagCheckInterval, "i", d.OnlineCheckInterval, "online check interval")
	fs.Duration(FlagReconcileInterval, d.ReconcileInterval, "interval between scheduled publication passes")
	fs.Duration(FlagTimeout, d.RequestTimeout, "timeout for a single server request")
	fs.BoolP(FlagVerbose, "v", d.Verbose, "log at debug level")
}

// applyFlags copies explicitly set flags into cfg so that untouched flags
// do not override values from the JSON file.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	if fs.Changed(FlagServer) {
		if cfg.ServerEndpointAddr, err = fs.GetString(FlagServer); err != nil {
			return err
		}
	}
	if fs.Changed(FlagCheckInterval) {
		if cfg.OnlineCheckInterval, err = fs.GetDuration(FlagCheckInterval); err != nil {
			return err
		}
	}
	if fs.Changed(FlagReconcileInterval) {
		if cfg.ReconcileInterval, err = fs.GetDuration(FlagReconcileInterval); err != nil {
			return err
		}
	}
	if fs.Changed(FlagTimeout) {
		if cfg.RequestTimeout, err = fs.GetDuration(FlagTimeout); err != nil {
			return err
		}
	}
	if fs.Changed(FlagVerbose) {
		if cfg.Verbose, err = fs.GetBool(FlagVerbose); err != nil {
			return err
		}
	}
	return nil
}
