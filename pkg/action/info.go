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
	probeError "github.com/guestkit/tpmprobe/pkg/error"
	"github.com/guestkit/tpmprobe/pkg/firmware"
	"github.com/guestkit/tpmprobe/pkg/types"
	"github.com/guestkit/tpmprobe/pkg/utils"
)

// RunInfo collects a summary of the attestation relevant platform state,
// the TPM manufacturer, the firmware variable view and the DMI identity
// of the machine. Pieces that are not available are left out instead of
// failing the whole summary, a missing TPM is itself a finding here.
func RunInfo(cfg *types.RunConfig, spec *types.InfoSpec) (result *types.InfoResult, err error) {
	cleanup := utils.NewCleanStack()
	defer func() { err = cleanup.Cleanup(err) }()

	cfg.Logger.Info("Collecting platform information")

	result = &types.InfoResult{}

	dev, device, err := openDevice(cfg, spec.Device)
	if err != nil {
		cfg.Logger.Warnf("no usable TPM device: %s", err.Error())
		err = nil
	} else {
		cleanup.Push(func() error { return probeError.NewFromError(dev.Close(), probeError.CloseFile) })
		result.Device = device
		result.Manufacturer, err = cfg.TPM.Manufacturer(dev)
		if err != nil {
			cfg.Logger.Warnf("could not read TPM manufacturer: %s", err.Error())
			err = nil
		}
	}

	result.Firmware = firmware.ReadState(cfg.EfiVars, cfg.Logger)

	result.Host, err = cfg.Hardware.HostInfo()
	if err != nil {
		cfg.Logger.Errorf("failed collecting host information: %s", err.Error())
		return nil, probeError.NewFromError(err, probeError.CollectInfo)
	}

	if spec.Output != "" {
		err = dumpYAML(cfg, spec.Output, result)
		if err != nil {
			cfg.Logger.Errorf("failed dumping platform summary: %s", err.Error())
			return nil, probeError.NewFromError(err, probeError.DumpFile)
		}
	}

	return result, nil
}
