// Package config binds command-line flags to environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BindEnv lets every flag in fs be set from the environment as PREFIX_FLAG_NAME, with
// dashes turned into underscores. Flags given on the command line still win. Call it
// after the flags are defined and before they are parsed.
func BindEnv(fs *pflag.FlagSet, prefix string) error {
	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		if e := v.BindPFlag(f.Name, f); e != nil {
			err = e
			return
		}
		if e := v.BindEnv(f.Name); e != nil {
			err = e
			return
		}
		if !f.Changed && v.IsSet(f.Name) {
			if e := fs.Set(f.Name, envValue(v.Get(f.Name))); e != nil {
				err = fmt.Errorf("invalid %s_%s: %w", prefix, strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_")), e)
			}
		}
	})
	return err
}

// envValue renders a viper value the way pflag parses it back.
func envValue(v any) string {
	if list, ok := v.([]string); ok {
		return strings.Join(list, ",")
	}
	return fmt.Sprintf("%v", v)
}
