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
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/guestkit/tpmprobe/pkg/constants"
	probeError "github.com/guestkit/tpmprobe/pkg/error"
	"github.com/guestkit/tpmprobe/pkg/tpm"
	"github.com/guestkit/tpmprobe/pkg/types"
	"github.com/guestkit/tpmprobe/pkg/utils"
)

// RunClear sends a bare TPM2_Clear against the platform hierarchy and
// classifies the response. The command carries no authorization session,
// so a provisioned platform must refuse it. The refusal is the healthy
// outcome, an actual clear means the hierarchy was left unguarded.
func RunClear(cfg *types.RunConfig, spec *types.ClearSpec) (result *types.ClearResult, err error) {
	cleanup := utils.NewCleanStack()
	defer func() { err = cleanup.Cleanup(err) }()

	cfg.Logger.Infof("Probing platform hierarchy clear on %s", spec.Device)

	dev, err := cfg.TPM.Open(spec.Device)
	if err != nil {
		cfg.Logger.Errorf("failed opening TPM device: %s", err.Error())
		return nil, probeError.NewFromError(err, probeError.OpenDevice)
	}
	cleanup.Push(func() error { return probeError.NewFromError(dev.Close(), probeError.CloseFile) })

	response, err := tpm.Transmit(dev, tpm.ClearPlatformCommand[:])
	if err != nil {
		cfg.Logger.Errorf("failed transmitting clear command: %s", err.Error())
		return nil, probeError.NewFromError(err, probeError.TransmitCommand)
	}
	cfg.Logger.Debugf("Received %d response bytes", len(response))

	verdict := tpm.Classify(response)
	result = &types.ClearResult{
		Device:    spec.Device,
		Verdict:   verdict.String(),
		Succeeded: verdict.Passed(),
	}
	if !verdict.TooShort {
		result.ResponseCode = fmt.Sprintf("0x%08X", uint32(verdict.Code))
	}
	if name := verdict.Name(); name != "" {
		cfg.Logger.Debugf("TPM refused the clear with %s", name)
	}

	if spec.Output != "" {
		err = dumpYAML(cfg, spec.Output, result)
		if err != nil {
			cfg.Logger.Errorf("failed dumping clear result: %s", err.Error())
			return nil, probeError.NewFromError(err, probeError.DumpFile)
		}
	}

	return result, nil
}

// dumpYAML writes the given result rendered as YAML, creating parent
// directories as needed
func dumpYAML(cfg *types.RunConfig, path string, result interface{}) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return err
	}
	err = utils.MkdirAll(cfg.Fs, filepath.Dir(path), constants.DirPerm)
	if err != nil {
		return err
	}
	cfg.Logger.Debugf("Writing result to %s", path)
	return cfg.Fs.WriteFile(path, data, constants.FilePerm)
}
