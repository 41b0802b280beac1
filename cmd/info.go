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
	"gopkg.in/yaml.v3"

	"github.com/guestkit/tpmprobe/cmd/config"
	"github.com/guestkit/tpmprobe/pkg/action"
	probeError "github.com/guestkit/tpmprobe/pkg/error"
)

// NewInfoCmd prints a summary of the TPM, firmware and DMI state of the guest
func NewInfoCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:   "info",
		Short: "Summarize TPM, firmware and platform state",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.ReadConfigRun(viper.GetString("config-dir"), cmd.Flags())
			if err != nil {
				cfg.Logger.Errorf("Error reading config: %s\n", err)
				return probeError.NewFromError(err, probeError.ReadingRunConfig)
			}

			cmd.SilenceUsage = true
			spec, err := config.ReadInfoSpec(cfg, cmd.Flags())
			if err != nil {
				cfg.Logger.Errorf("Error reading spec: %s\n", err)
				return probeError.NewFromError(err, probeError.ReadingSpecConfig)
			}

			result, err := action.RunInfo(cfg, spec)
			if err != nil {
				return err
			}

			if spec.Output == "" {
				data, err := yaml.Marshal(result)
				if err != nil {
					return probeError.NewFromError(err, probeError.DumpFile)
				}
				fmt.Print(string(data))
			}
			return nil
		},
	}
	root.AddCommand(c)
	addDeviceFlag(c, "")
	addOutputFlag(c)
	return c
}

// register the subcommand into rootCmd
var _ = NewInfoCmd(rootCmd)
