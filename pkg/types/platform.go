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

package types

// EfiVariables gives read access to the EFI firmware variables of the host
type EfiVariables interface {
	Supported() bool
	ReadVariable(name string) ([]byte, error)
}

// FirmwareState summarizes the boot related EFI variables
type FirmwareState struct {
	EFIVariables bool `yaml:"efi-variables"`
	SecureBoot   bool `yaml:"secure-boot"`
	SetupMode    bool `yaml:"setup-mode"`
}

// HostInfo describes the machine identity as reported by the DMI tables
type HostInfo struct {
	ProductName string `yaml:"product-name,omitempty"`
	Vendor      string `yaml:"vendor,omitempty"`
	Serial      string `yaml:"serial,omitempty"`
	BIOSVendor  string `yaml:"bios-vendor,omitempty"`
	BIOSVersion string `yaml:"bios-version,omitempty"`
	BIOSDate    string `yaml:"bios-date,omitempty"`
}

// HardwareInspector collects the host identity details
type HardwareInspector interface {
	HostInfo() (*HostInfo, error)
}
