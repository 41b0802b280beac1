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
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guestkit/tpmprobe/cmd/config"
	"github.com/guestkit/tpmprobe/pkg/action"
	"github.com/guestkit/tpmprobe/pkg/constants"
	probeError "github.com/guestkit/tpmprobe/pkg/error"
	"github.com/guestkit/tpmprobe/pkg/utils"
)

// NewReportCmd writes guest input to its NV index and reads back the
// attestation report generated over it
func NewReportCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:   "report",
		Short: "Write guest input and read the attestation report",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.ReadConfigRun(viper.GetString("config-dir"), cmd.Flags())
			if err != nil {
				cfg.Logger.Errorf("Error reading config: %s\n", err)
				return probeError.NewFromError(err, probeError.ReadingRunConfig)
			}

			if err := validateReportFlags(cfg.Logger, cmd.Flags()); err != nil {
				cfg.Logger.Errorf("Error reading report flags: %s\n", err)
				return probeError.NewFromError(err, probeError.WrongFlags)
			}

			// Set this after parsing of the flags, so it fails on parsing and prints usage properly
			cmd.SilenceUsage = true

			spec, err := config.ReadReportSpec(cfg, cmd.Flags())
			if err != nil {
				cfg.Logger.Errorf("Invalid report command setup %v", err)
				return probeError.NewFromError(err, probeError.ReadingSpecConfig)
			}

			result, err := action.RunReport(cfg, spec)
			if err != nil {
				return err
			}

			fmt.Print(utils.FormatNVData("Guest input", result.GuestInput, constants.HexdumpLimit))
			fmt.Print(utils.FormatNVData("Attestation report", result.Report, constants.HexdumpLimit))
			if spec.ShowRuntimeClaims {
				printRuntimeClaims(result.Claims)
			}
			return nil
		},
	}
	root.AddCommand(c)
	addDeviceFlag(c, "")
	addGuestInputFlags(c)
	c.Flags().Bool("show-runtime-claims", false, "Decode and print the runtime claims JSON carried by the report")
	return c
}

func printRuntimeClaims(claims []byte) {
	if len(claims) == 0 {
		fmt.Println("Runtime claims: <empty>")
		return
	}
	var pretty bytes.Buffer
	if json.Indent(&pretty, claims, "", "  ") == nil {
		fmt.Printf("Runtime claims JSON:\n%s\n", pretty.String())
	} else {
		fmt.Printf("Runtime claims JSON:\n%s\n", string(claims))
	}
}

var _ = NewReportCmd(rootCmd)
