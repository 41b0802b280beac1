/*
Copyright © 2025 - 2026 GuestKit Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/guestkit/tpmprobe/pkg/config"
	"github.com/guestkit/tpmprobe/pkg/constants"
	"github.com/guestkit/tpmprobe/pkg/types"
	"github.com/guestkit/tpmprobe/pkg/utils"
)

// ReadConfigRun builds the shared RunConfig. Configuration is merged from
// the config.yaml in configDir, any files under configDir/config.d/ and
// the TPMPROBE prefixed environment, flags win over all of them.
func ReadConfigRun(configDir string, flags *pflag.FlagSet) (*types.RunConfig, error) {
	cfg := config.NewRunConfig(
		config.WithLogger(types.NewLogger()),
	)

	configLogger(cfg.Logger, cfg.Fs)

	// An environment file can provide TPMPROBE variables before they are bound
	if err := godotenv.Load(constants.EnvironmentFile); err != nil {
		cfg.Logger.Debugf("Not loading %s: %s", constants.EnvironmentFile, err.Error())
	}

	viper.AddConfigPath(configDir)
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	// If a config file is found, read it in.
	err := viper.MergeInConfig()
	if err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return cfg, err
		}
	}

	// Load extra config files on configdir/config.d/ so we can override config values
	cfgExtra := fmt.Sprintf("%s/config.d/", strings.TrimSuffix(configDir, "/"))
	if _, err := os.Stat(cfgExtra); err == nil {
		viper.AddConfigPath(cfgExtra)
		err = filepath.WalkDir(cfgExtra, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr == nil && !d.IsDir() {
				viper.SetConfigName(d.Name())
				return viper.MergeInConfig()
			}
			return walkErr
		})
		if err != nil {
			return cfg, err
		}
	}

	// Set the prefix for vars so we get only the ones starting with TPMPROBE
	viper.SetEnvPrefix("TPMPROBE")
	replacer := strings.NewReplacer("-", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv() // read in environment variables that match

	if flags != nil {
		_ = viper.BindPFlags(flags)
	}

	// unmarshal all the vars into the config object
	err = viper.Unmarshal(cfg)
	if err != nil {
		cfg.Logger.Warnf("error unmarshalling RunConfig: %s", err)
	}

	return cfg, err
}

// configLogger sets up the logger level, format and output destinations
// based on the already bound root command flags
func configLogger(log types.Logger, vfs types.FS) {
	// Set debug level
	if viper.GetBool("debug") {
		log.SetLevel(types.DebugLevel())
	}

	// Set formatter so both file and screen format are equal
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      true,
		DisableColors:    false,
		DisableTimestamp: false,
		FullTimestamp:    true,
	})

	// Logging is kept away from stdout, commands print their findings there
	logfile := viper.GetString("logfile")
	if logfile != "" {
		o, err := vfs.OpenFile(logfile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fs.ModePerm)
		if err != nil {
			log.Errorf("Could not open %s for logging to file: %s", logfile, err.Error())
		} else if viper.GetBool("quiet") { // if quiet is set, only set the log to the file
			log.SetOutput(o)
		} else { // else set it to both stderr and the file
			mw := io.MultiWriter(os.Stderr, o)
			log.SetOutput(mw)
		}
	} else { // no logfile
		if viper.GetBool("quiet") { // quiet is enabled so discard all logging
			log.SetOutput(io.Discard)
		} else { // default to stderr
			log.SetOutput(os.Stderr)
		}
	}
}

// viperReadEnv binds the given environment variables into the viper
// instance by hand. viper.Sub returns a new instance that knows nothing
// about the bound environment, so the automatic matching does not reach
// the per command sections.
func viperReadEnv(vp *viper.Viper, prefix string, keyEnvMap map[string]string) {
	for k, envVar := range keyEnvMap {
		_ = vp.BindEnv(k, fmt.Sprintf("TPMPROBE_%s_%s", prefix, envVar))
	}
}

// readSpecSection loads the named config section, the matching
// environment variables and the given flags into the spec struct
func readSpecSection(name string, envPrefix string, envMap map[string]string, flags *pflag.FlagSet, spec interface{}) error {
	vp := viper.Sub(name)
	if vp == nil {
		vp = viper.New()
	}
	viperReadEnv(vp, envPrefix, envMap)

	if flags != nil {
		_ = vp.BindPFlags(flags)
	}

	return vp.Unmarshal(spec)
}

// ReadClearSpec loads the configuration of the clear probe
func ReadClearSpec(r *types.RunConfig, flags *pflag.FlagSet) (*types.ClearSpec, error) {
	sp := config.NewClearSpec()

	err := readSpecSection("clear", "CLEAR", constants.GetClearKeyEnvMap(), flags, sp)
	if err != nil {
		r.Logger.Warnf("error unmarshalling ClearSpec: %s", err)
		return sp, err
	}

	return sp, sp.Sanitize()
}

// ReadAkCertSpec loads the configuration of the AK certificate probe and
// resolves the expected certificate contents
func ReadAkCertSpec(r *types.RunConfig, flags *pflag.FlagSet) (*types.AkCertSpec, error) {
	sp := config.NewAkCertSpec()

	err := readSpecSection("akcert", "AKCERT", constants.GetAkCertKeyEnvMap(), flags, sp)
	if err != nil {
		r.Logger.Warnf("error unmarshalling AkCertSpec: %s", err)
		return sp, err
	}

	if sp.ExpectedHex != "" {
		sp.Expected, err = utils.ParseHexBytes(sp.ExpectedHex)
		if err != nil {
			return sp, fmt.Errorf("parsing expected AK certificate hex: %w", err)
		}
	} else if sp.ExpectedFile != "" {
		sp.Expected, err = r.Fs.ReadFile(sp.ExpectedFile)
		if err != nil {
			return sp, fmt.Errorf("reading expected AK certificate from %s: %w", sp.ExpectedFile, err)
		}
	}

	return sp, sp.Sanitize()
}

// ReadReportSpec loads the configuration of the attestation report
// exchange and resolves the guest input payload
func ReadReportSpec(r *types.RunConfig, flags *pflag.FlagSet) (*types.ReportSpec, error) {
	sp := config.NewReportSpec()

	err := readSpecSection("report", "REPORT", constants.GetReportKeyEnvMap(), flags, sp)
	if err != nil {
		r.Logger.Warnf("error unmarshalling ReportSpec: %s", err)
		return sp, err
	}

	if sp.UserDataHex != "" {
		sp.Payload, err = utils.ParseHexBytes(sp.UserDataHex)
		if err != nil {
			return sp, fmt.Errorf("parsing guest input hex: %w", err)
		}
	} else if sp.UserData != "" {
		sp.Payload = []byte(sp.UserData)
	}

	return sp, sp.Sanitize()
}

// ReadInfoSpec loads the configuration of the platform summary
func ReadInfoSpec(r *types.RunConfig, flags *pflag.FlagSet) (*types.InfoSpec, error) {
	sp := config.NewInfoSpec()

	err := readSpecSection("info", "INFO", constants.GetInfoKeyEnvMap(), flags, sp)
	if err != nil {
		r.Logger.Warnf("error unmarshalling InfoSpec: %s", err)
		return sp, err
	}

	return sp, sp.Sanitize()
}
