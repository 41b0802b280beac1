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
	"fmt"
	"time"

	"github.com/guestkit/tpmprobe/pkg/attestation"
	"github.com/guestkit/tpmprobe/pkg/constants"
	probeError "github.com/guestkit/tpmprobe/pkg/error"
	"github.com/guestkit/tpmprobe/pkg/types"
	"github.com/guestkit/tpmprobe/pkg/utils"
)

// BuildGuestInputPayload pads the given user data to the fixed guest
// input size. Without user data a timestamped marker is written instead,
// so consecutive runs produce distinguishable reports.
func BuildGuestInputPayload(userData []byte) []byte {
	payload := make([]byte, constants.GuestInputSize)
	if len(userData) > 0 {
		copy(payload, userData)
		return payload
	}
	copy(payload, fmt.Sprintf("tpmprobe %016x", time.Now().Unix()))
	return payload
}

// RunReport writes the guest attestation input to its NV index, defining
// the index first if the platform did not, and reads back the attestation
// report the host keeps current in NV space.
func RunReport(cfg *types.RunConfig, spec *types.ReportSpec) (result *types.ReportResult, err error) {
	cleanup := utils.NewCleanStack()
	defer func() { err = cleanup.Cleanup(err) }()

	dev, device, err := openDevice(cfg, spec.Device)
	if err != nil {
		cfg.Logger.Errorf("failed opening TPM device: %s", err.Error())
		return nil, probeError.NewFromError(err, probeError.OpenDevice)
	}
	cleanup.Push(func() error { return probeError.NewFromError(dev.Close(), probeError.CloseFile) })

	result = &types.ReportResult{Device: device}

	err = cfg.TPM.EnsureIndex(dev, constants.GuestInputNVIndex, constants.GuestInputSize)
	if err != nil {
		cfg.Logger.Errorf("failed defining guest input NV index: %s", err.Error())
		return nil, probeError.NewFromError(err, probeError.DefineIndex)
	}

	payload := BuildGuestInputPayload(spec.Payload)
	cfg.Logger.Infof("Writing %d bytes of guest attestation input to NV index 0x%08X", len(payload), constants.GuestInputNVIndex)
	err = cfg.TPM.WriteIndex(dev, constants.GuestInputNVIndex, payload)
	if err != nil {
		cfg.Logger.Errorf("failed writing guest attestation input: %s", err.Error())
		return nil, probeError.NewFromError(err, probeError.WriteIndex)
	}

	result.GuestInput, err = cfg.TPM.ReadIndex(dev, constants.GuestInputNVIndex)
	if err != nil {
		cfg.Logger.Errorf("failed reading back guest attestation input: %s", err.Error())
		return nil, probeError.NewFromError(err, probeError.ReadIndex)
	}

	cfg.Logger.Infof("Reading attestation report from NV index 0x%08X", constants.ReportNVIndex)
	result.Report, err = cfg.TPM.ReadIndex(dev, constants.ReportNVIndex)
	if err != nil {
		cfg.Logger.Errorf("failed reading attestation report: %s", err.Error())
		return nil, probeError.NewFromError(err, probeError.ReadIndex)
	}
	if len(result.Report) > constants.MaxAttestationReadSize {
		return nil, probeError.New(
			fmt.Sprintf("attestation report size %d exceeds maximum %d bytes", len(result.Report), constants.MaxAttestationReadSize),
			probeError.ReadIndex,
		)
	}

	if spec.ShowRuntimeClaims {
		result.Claims, err = attestation.RuntimeClaims(result.Report)
		if err != nil {
			cfg.Logger.Errorf("failed decoding runtime claims: %s", err.Error())
			return nil, probeError.NewFromError(err, probeError.DecodeReport)
		}
	}

	return result, nil
}
