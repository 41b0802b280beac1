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
	"github.com/twpayne/go-vfs/v4"

	"github.com/guestkit/tpmprobe/pkg/constants"
	"github.com/guestkit/tpmprobe/pkg/firmware"
	"github.com/guestkit/tpmprobe/pkg/hardware"
	"github.com/guestkit/tpmprobe/pkg/tpm"
	"github.com/guestkit/tpmprobe/pkg/types"
)

type GenericOptions func(a *types.Config) error

func WithFs(fs types.FS) func(r *types.Config) error {
	return func(r *types.Config) error {
		r.Fs = fs
		return nil
	}
}

func WithLogger(logger types.Logger) func(r *types.Config) error {
	return func(r *types.Config) error {
		r.Logger = logger
		return nil
	}
}

func WithTPMClient(client types.TPMClient) func(r *types.Config) error {
	return func(r *types.Config) error {
		r.TPM = client
		return nil
	}
}

func WithEfiVariables(vars types.EfiVariables) func(r *types.Config) error {
	return func(r *types.Config) error {
		r.EfiVars = vars
		return nil
	}
}

func WithHardwareInspector(inspector types.HardwareInspector) func(r *types.Config) error {
	return func(r *types.Config) error {
		r.Hardware = inspector
		return nil
	}
}

func NewConfig(opts ...GenericOptions) *types.Config {
	log := types.NewLogger()

	c := &types.Config{
		Fs:       vfs.OSFS,
		Logger:   log,
		EfiVars:  firmware.RealEFIVariables{},
		Hardware: hardware.Inspector{},
	}
	for _, o := range opts {
		err := o(c)
		if err != nil {
			log.Errorf("error applying config option: %s", err.Error())
			return nil
		}
	}

	// delay client creation after we have run over the options in case we use WithTPMClient
	if c.TPM == nil {
		c.TPM = tpm.NewClient(c.Logger)
	}

	// Now check if the client has a logger inside, otherwise point our logger into it
	// This can happen if we set the WithTPMClient option as that doesn't set a logger
	if c.TPM.GetLogger() == nil {
		c.TPM.SetLogger(c.Logger)
	}

	return c
}

func NewRunConfig(opts ...GenericOptions) *types.RunConfig {
	config := NewConfig(opts...)
	r := &types.RunConfig{
		Config: *config,
	}
	return r
}

// NewClearSpec returns a ClearSpec struct all based on defaults
func NewClearSpec() *types.ClearSpec {
	return &types.ClearSpec{
		Device: constants.TPMResourceMgrDevice,
	}
}

// NewAkCertSpec returns an AkCertSpec struct all based on defaults
func NewAkCertSpec() *types.AkCertSpec {
	return &types.AkCertSpec{
		RetryDelay: constants.AkCertRetryDelay,
	}
}

// NewReportSpec returns a ReportSpec struct all based on defaults
func NewReportSpec() *types.ReportSpec {
	return &types.ReportSpec{}
}

// NewInfoSpec returns an InfoSpec struct all based on defaults
func NewInfoSpec() *types.InfoSpec {
	return &types.InfoSpec{}
}
