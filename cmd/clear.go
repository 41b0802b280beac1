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
)

// NewClearCmd sends an unauthorized TPM2_Clear against the platform
// hierarchy and reports whether the device refused it
func NewClearCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:   "clear",
		Short: "Check the platform hierarchy refuses an unauthorized TPM2_Clear",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.ReadConfigRun(viper.GetString("config-dir"), cmd.Flags())
			if err != nil {
				cfg.Logger.Errorf("Error reading config: %s\n", err)
				return probeError.NewFromError(err, probeError.ReadingRunConfig)
			}

			cmd.SilenceUsage = true
			spec, err := config.ReadClearSpec(cfg, cmd.Flags())
			if err != nil {
				cfg.Logger.Errorf("Error reading spec: %s\n", err)
				return probeError.NewFromError(err, probeError.ReadingSpecConfig)
			}

			result, err := action.RunClear(cfg, spec)
			if err != nil {
				return err
			}

			// The verdict is the single line this command prints
			fmt.Println(result.Verdict)
			return nil
		},
	}
	root.AddCommand(c)
	addDeviceFlag(c, constants.TPMResourceMgrDevice)
	addOutputFlag(c)
	return c
}

// register the subcommand into rootCmd
var _ = NewClearCmd(rootCmd)
