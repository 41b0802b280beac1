/*
Copyright © 2025 GuestKit Authors

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

package firmware

import (
	"github.com/guestkit/tpmprobe/pkg/types"
)

const (
	secureBootName = "SecureBoot"
	setupModeName  = "SetupMode"
)

// ReadState inspects the boot related firmware variables. Missing or
// unreadable variables degrade to their zero values, hosts without
// efivars support report the whole facility as unavailable.
func ReadState(vars types.EfiVariables, logger types.Logger) *types.FirmwareState {
	state := &types.FirmwareState{}
	if !vars.Supported() {
		logger.Debug("EFI variables are not supported on this host")
		return state
	}
	state.EFIVariables = true
	state.SecureBoot = readBoolVariable(vars, secureBootName, logger)
	state.SetupMode = readBoolVariable(vars, setupModeName, logger)
	return state
}

func readBoolVariable(vars types.EfiVariables, name string, logger types.Logger) bool {
	data, err := vars.ReadVariable(name)
	if err != nil {
		logger.Debugf("Could not read EFI variable %s: %v", name, err)
		return false
	}
	return len(data) > 0 && data[0] == 1
}
