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

package action

import (
	"bytes"
	"fmt"
	"time"

	"github.com/guestkit/tpmprobe/pkg/constants"
	probeError "github.com/guestkit/tpmprobe/pkg/error"
	"github.com/guestkit/tpmprobe/pkg/types"
	"github.com/guestkit/tpmprobe/pkg/utils"
)

// openDevice opens the requested TPM device, or walks the default
// candidates when none was requested, and returns the resolved path
func openDevice(cfg *types.RunConfig, device string) (types.TPMDevice, string, error) {
	if device != "" {
		dev, err := cfg.TPM.Open(device)
		return dev, device, err
	}
	return cfg.TPM.OpenFirst(constants.GetDefaultTPMDevices())
}

// RunAkCert reads the AK certificate from its NV index. With expected
// contents given it compares the two, retrying a few times because the
// host may still be provisioning the certificate when the guest first
// looks for it.
func RunAkCert(cfg *types.RunConfig, spec *types.AkCertSpec) (result *types.AkCertResult, err error) {
	cleanup := utils.NewCleanStack()
	defer func() { err = cleanup.Cleanup(err) }()

	dev, device, err := openDevice(cfg, spec.Device)
	if err != nil {
		cfg.Logger.Errorf("failed opening TPM device: %s", err.Error())
		return nil, probeError.NewFromError(err, probeError.OpenDevice)
	}
	cleanup.Push(func() error { return probeError.NewFromError(dev.Close(), probeError.CloseFile) })

	result = &types.AkCertResult{Device: device}

	cfg.Logger.Infof("Reading AK certificate from NV index 0x%08X", constants.AkCertNVIndex)
	for attempt := 0; ; attempt++ {
		result.Data, err = cfg.TPM.ReadIndex(dev, constants.AkCertNVIndex)
		if err != nil {
			if attempt >= spec.Retries {
				cfg.Logger.Errorf("failed reading AK certificate: %s", err.Error())
				return nil, probeError.NewFromError(err, probeError.ReadIndex)
			}
			cfg.Logger.Warnf("failed reading AK certificate; retrying after %s (%d/%d)", spec.RetryDelay, attempt+1, spec.Retries)
			time.Sleep(spec.RetryDelay)
			continue
		}

		if len(result.Data) > constants.MaxNVReadSize {
			return nil, probeError.New(
				fmt.Sprintf("AK certificate size %d exceeds maximum %d bytes", len(result.Data), constants.MaxNVReadSize),
				probeError.ReadIndex,
			)
		}

		if len(spec.Expected) == 0 {
			return result, nil
		}
		if bytes.Equal(result.Data, spec.Expected) {
			result.Matched = true
			cfg.Logger.Debugf("AK certificate matched after %d retries", attempt)
			return result, nil
		}
		if attempt >= spec.Retries {
			return result, probeError.New("AK certificate contents did not match expected value", probeError.CertMismatch)
		}
		cfg.Logger.Warnf("AK certificate mismatch; retrying after %s (%d/%d)", spec.RetryDelay, attempt+1, spec.Retries)
		time.Sleep(spec.RetryDelay)
	}
}
