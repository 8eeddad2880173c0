// Package config loads and validates markstyle configuration.
//
// Configuration is read from a TOML or YAML file, selected by extension,
// and overlaid with MARKSTYLE_* environment variables:
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	config.ApplyEnv(cfg, os.LookupEnv)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// A Watcher reloads the file whenever it changes on disk and hands the new
// configuration to its subscribers.
package config
