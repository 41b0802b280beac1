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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guestkit/tpmprobe/cmd/config"
	"github.com/guestkit/tpmprobe/pkg/action"
	"github.com/guestkit/tpmprobe/pkg/constants"
	probeError "github.com/guestkit/tpmprobe/pkg/error"
	"github.com/guestkit/tpmprobe/pkg/utils"
)

// NewAkCertCmd reads the AK certificate NV index and optionally compares
// it against an expected value, retrying while provisioning completes
func NewAkCertCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:   "akcert",
		Short: "Read the AK certificate from its NV index",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.ReadConfigRun(viper.GetString("config-dir"), cmd.Flags())
			if err != nil {
				cfg.Logger.Errorf("Error reading config: %s\n", err)
				return probeError.NewFromError(err, probeError.ReadingRunConfig)
			}

			if err := validateAkCertFlags(cfg.Logger, cmd.Flags()); err != nil {
				cfg.Logger.Errorf("Error reading AK certificate flags: %s\n", err)
				return probeError.NewFromError(err, probeError.WrongFlags)
			}

			// Set this after parsing of the flags, so it fails on parsing and prints usage properly
			cmd.SilenceUsage = true

			spec, err := config.ReadAkCertSpec(cfg, cmd.Flags())
			if err != nil {
				cfg.Logger.Errorf("Invalid akcert command setup %v", err)
				return probeError.NewFromError(err, probeError.ReadingSpecConfig)
			}

			result, err := action.RunAkCert(cfg, spec)
			if result != nil {
				// dump whatever was read, also when the comparison failed
				fmt.Print(utils.FormatNVData("AK certificate", result.Data, constants.HexdumpLimit))
			}
			if err != nil {
				return err
			}
			if result.Matched {
				fmt.Printf("AK certificate matches expected value (%d bytes).\n", len(result.Data))
			}
			return nil
		},
	}
	root.AddCommand(c)
	addDeviceFlag(c, "")
	addExpectedFlags(c)
	c.Flags().Int("retry", 0, "Extra read attempts while waiting for the expected AK certificate")
	return c
}

// register the subcommand into rootCmd
var _ = NewAkCertCmd(rootCmd)
