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

package mocks

import (
	"github.com/guestkit/tpmprobe/pkg/types"
)

// FakeHardwareInspector returns a canned host identity
type FakeHardwareInspector struct {
	Info *types.HostInfo
	Err  error
}

var _ types.HardwareInspector = (*FakeHardwareInspector)(nil)

func (f FakeHardwareInspector) HostInfo() (*types.HostInfo, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Info, nil
}
