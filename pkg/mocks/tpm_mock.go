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

package mocks

import (
	"fmt"

	"github.com/guestkit/tpmprobe/pkg/types"
)

// FakeTPMDevice is a scripted TPM character device. Writes are recorded
// and reads return the configured response bytes.
type FakeTPMDevice struct {
	Response []byte
	WriteErr error
	ReadErr  error
	CloseErr error
	Commands [][]byte
	Closed   bool
}

var _ types.TPMDevice = (*FakeTPMDevice)(nil)

func (d *FakeTPMDevice) Write(p []byte) (int, error) {
	if d.WriteErr != nil {
		return 0, d.WriteErr
	}
	cmd := make([]byte, len(p))
	copy(cmd, p)
	d.Commands = append(d.Commands, cmd)
	return len(p), nil
}

func (d *FakeTPMDevice) Read(p []byte) (int, error) {
	if d.ReadErr != nil {
		return 0, d.ReadErr
	}
	return copy(p, d.Response), nil
}

func (d *FakeTPMDevice) Close() error {
	d.Closed = true
	return d.CloseErr
}

// LastCommand returns the most recent raw command written to the device
func (d *FakeTPMDevice) LastCommand() []byte {
	if len(d.Commands) == 0 {
		return nil
	}
	return d.Commands[len(d.Commands)-1]
}

// FakeTPMClient serves scripted devices and NV index contents
type FakeTPMClient struct {
	Devices map[string]*FakeTPMDevice
	Indexes map[uint32][]byte
	Defined map[uint32]uint16
	Vendor  string

	// SideEffect overrides ReadIndex results when set
	SideEffect func(index uint32) ([]byte, error)

	OpenErr   error
	ReadErr   error
	WriteErr  error
	DefineErr error
	VendorErr error
	Logger    types.Logger

	reads []uint32
}

var _ types.TPMClient = (*FakeTPMClient)(nil)

func NewFakeTPMClient() *FakeTPMClient {
	return &FakeTPMClient{
		Devices: map[string]*FakeTPMDevice{},
		Indexes: map[uint32][]byte{},
		Defined: map[uint32]uint16{},
	}
}

func (f *FakeTPMClient) Open(path string) (types.TPMDevice, error) {
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	dev, ok := f.Devices[path]
	if !ok {
		return nil, fmt.Errorf("opening TPM device %s: no such device", path)
	}
	return dev, nil
}

func (f *FakeTPMClient) OpenFirst(paths []string) (types.TPMDevice, string, error) {
	var lastErr error
	for _, path := range paths {
		dev, err := f.Open(path)
		if err == nil {
			return dev, path, nil
		}
		lastErr = err
	}
	return nil, "", fmt.Errorf("no TPM device found: %w", lastErr)
}

func (f *FakeTPMClient) ReadIndex(_ types.TPMDevice, index uint32) ([]byte, error) {
	f.reads = append(f.reads, index)
	if f.SideEffect != nil {
		return f.SideEffect(index)
	}
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	data, ok := f.Indexes[index]
	if !ok {
		return nil, fmt.Errorf("NV index 0x%08X not found", index)
	}
	return data, nil
}

func (f *FakeTPMClient) WriteIndex(_ types.TPMDevice, index uint32, data []byte) error {
	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.Indexes[index] = append([]byte{}, data...)
	return nil
}

func (f *FakeTPMClient) EnsureIndex(_ types.TPMDevice, index uint32, size uint16) error {
	if f.DefineErr != nil {
		return f.DefineErr
	}
	if _, ok := f.Defined[index]; !ok {
		f.Defined[index] = size
	}
	return nil
}

func (f *FakeTPMClient) Manufacturer(_ types.TPMDevice) (string, error) {
	if f.VendorErr != nil {
		return "", f.VendorErr
	}
	return f.Vendor, nil
}

func (f *FakeTPMClient) GetLogger() types.Logger {
	return f.Logger
}

func (f *FakeTPMClient) SetLogger(logger types.Logger) {
	f.Logger = logger
}

// ReadCount returns how many times the given NV index was read
func (f *FakeTPMClient) ReadCount(index uint32) int {
	count := 0
	for _, idx := range f.reads {
		if idx == index {
			count++
		}
	}
	return count
}
