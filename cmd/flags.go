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
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/guestkit/tpmprobe/pkg/types"
)

// addDeviceFlag adds the TPM device flag with the given default path.
// An empty default makes the command walk the usual device nodes instead.
func addDeviceFlag(cmd *cobra.Command, value string) {
	cmd.Flags().String("device", value, "TPM character device to probe")
}

// addOutputFlag adds the YAML result dump flag
func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().String("output", "", "Write the command result to this file as YAML")
}

// addExpectedFlags adds the flags giving the AK certificate contents to compare against
func addExpectedFlags(cmd *cobra.Command) {
	cmd.Flags().String("expected-hex", "", "Hex encoded AK certificate contents to compare against")
	cmd.Flags().String("expected-file", "", "File holding the raw AK certificate contents to compare against")
}

// addGuestInputFlags adds the flags giving the guest input written before reading the report
func addGuestInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("user-data", "", "Guest input text to write before reading the report")
	cmd.Flags().String("user-data-hex", "", "Hex encoded guest input to write before reading the report")
}

func validateAkCertFlags(_ types.Logger, flags *pflag.FlagSet) error {
	expectedHex, _ := flags.GetString("expected-hex")
	expectedFile, _ := flags.GetString("expected-file")
	if expectedHex != "" && expectedFile != "" {
		return errors.New("'expected-hex' and 'expected-file' are mutually exclusive options")
	}
	return nil
}

func validateReportFlags(_ types.Logger, flags *pflag.FlagSet) error {
	userData, _ := flags.GetString("user-data")
	userDataHex, _ := flags.GetString("user-data-hex")
	if userData != "" && userDataHex != "" {
		return errors.New("'user-data' and 'user-data-hex' are mutually exclusive options")
	}
	return nil
}
