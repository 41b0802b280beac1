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

package types

import (
	"fmt"
	"time"

	"github.com/guestkit/tpmprobe/pkg/constants"
)

// Config is the struct that holds the collaborators shared by all commands
type Config struct {
	Logger   Logger            `yaml:"-" mapstructure:"-"`
	Fs       FS                `yaml:"-" mapstructure:"-"`
	TPM      TPMClient         `yaml:"-" mapstructure:"-"`
	EfiVars  EfiVariables      `yaml:"-" mapstructure:"-"`
	Hardware HardwareInspector `yaml:"-" mapstructure:"-"`
}

// RunConfig is the running configuration structure of the commands
type RunConfig struct {
	Config `yaml:",inline" mapstructure:",squash"`
}

// ClearSpec drives the platform hierarchy clear probe
type ClearSpec struct {
	Device string `yaml:"device,omitempty" mapstructure:"device"`
	Output string `yaml:"output,omitempty" mapstructure:"output"`
}

// Sanitize checks the consistency of the struct, returns error if not valid
func (c *ClearSpec) Sanitize() error {
	if c.Device == "" {
		return fmt.Errorf("undefined TPM device")
	}
	return nil
}

// AkCertSpec drives the AK certificate NV index probe
type AkCertSpec struct {
	Device       string        `yaml:"device,omitempty" mapstructure:"device"`
	ExpectedHex  string        `yaml:"expected-hex,omitempty" mapstructure:"expected-hex"`
	ExpectedFile string        `yaml:"expected-file,omitempty" mapstructure:"expected-file"`
	Retries      int           `yaml:"retry,omitempty" mapstructure:"retry"`
	RetryDelay   time.Duration `yaml:"retry-delay,omitempty" mapstructure:"retry-delay"`

	// Expected is resolved from ExpectedHex or ExpectedFile
	Expected []byte `yaml:"-" mapstructure:"-"`
}

// Sanitize checks the consistency of the struct, returns error if not valid
func (a *AkCertSpec) Sanitize() error {
	if a.ExpectedHex != "" && a.ExpectedFile != "" {
		return fmt.Errorf("expected AK certificate data given both as hex and as a file")
	}
	if a.Retries > 0 && len(a.Expected) == 0 {
		return fmt.Errorf("retry requires expected AK certificate data")
	}
	if a.Retries < 0 {
		return fmt.Errorf("negative retry count")
	}
	return nil
}

// ReportSpec drives the attestation report exchange
type ReportSpec struct {
	Device            string `yaml:"device,omitempty" mapstructure:"device"`
	UserData          string `yaml:"user-data,omitempty" mapstructure:"user-data"`
	UserDataHex       string `yaml:"user-data-hex,omitempty" mapstructure:"user-data-hex"`
	ShowRuntimeClaims bool   `yaml:"show-runtime-claims,omitempty" mapstructure:"show-runtime-claims"`

	// Payload is resolved from UserData or UserDataHex
	Payload []byte `yaml:"-" mapstructure:"-"`
}

// Sanitize checks the consistency of the struct, returns error if not valid
func (r *ReportSpec) Sanitize() error {
	if r.UserData != "" && r.UserDataHex != "" {
		return fmt.Errorf("guest input given both as text and as hex")
	}
	if len(r.Payload) > constants.GuestInputSize {
		return fmt.Errorf("user data length %d exceeds %d byte guest input size", len(r.Payload), constants.GuestInputSize)
	}
	return nil
}

// InfoSpec drives the platform summary collection
type InfoSpec struct {
	Device string `yaml:"device,omitempty" mapstructure:"device"`
	Output string `yaml:"output,omitempty" mapstructure:"output"`
}

// Sanitize checks the consistency of the struct, returns error if not valid
func (i *InfoSpec) Sanitize() error {
	return nil
}

// ClearResult is the outcome of the platform hierarchy clear probe
type ClearResult struct {
	Device       string `yaml:"device"`
	Verdict      string `yaml:"verdict"`
	Succeeded    bool   `yaml:"succeeded"`
	ResponseCode string `yaml:"response-code,omitempty"`
}

// AkCertResult carries the AK certificate NV contents and, when expected
// data was given, the outcome of the comparison
type AkCertResult struct {
	Device  string
	Data    []byte
	Matched bool
}

// ReportResult carries the NV payloads exchanged for an attestation report
type ReportResult struct {
	Device     string
	GuestInput []byte
	Report     []byte
	Claims     []byte
}

// InfoResult is the collected platform summary
type InfoResult struct {
	Device       string         `yaml:"device,omitempty"`
	Manufacturer string         `yaml:"manufacturer,omitempty"`
	Firmware     *FirmwareState `yaml:"firmware,omitempty"`
	Host         *HostInfo      `yaml:"host,omitempty"`
}
