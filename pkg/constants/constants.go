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

package constants

import (
	"os"
	"time"
)

const (
	// TPM character devices, kernel resource manager first
	TPMResourceMgrDevice = "/dev/tpmrm0"
	TPMDirectDevice      = "/dev/tpm0"

	// NV index the platform publishes the AK certificate to
	AkCertNVIndex = 0x01C101D0

	// NV indexes backing the attestation report exchange
	ReportNVIndex     = 0x01400001
	GuestInputNVIndex = 0x01400002

	// Read and write boundaries for NV data
	MaxNVReadSize          = 4096
	MaxAttestationReadSize = 2600
	GuestInputSize         = 64

	// Wait between AK certificate read attempts
	AkCertRetryDelay = 200 * time.Millisecond

	// Bytes of NV data displayed before a dump is elided
	HexdumpLimit = 256

	ConfigDir = "/etc/tpmprobe"

	// Optional environment file loaded before evaluating TPMPROBE_* variables
	EnvironmentFile = "/etc/tpmprobe/tpmprobe.env"

	// Default directory and file fileModes
	DirPerm  = os.ModeDir | os.ModePerm
	FilePerm = 0666
)

// GetDefaultTPMDevices returns the TPM character devices to try in order
func GetDefaultTPMDevices() []string {
	return []string{TPMResourceMgrDevice, TPMDirectDevice}
}

// GetClearKeyEnvMap returns environment variable bindings to ClearSpec data
func GetClearKeyEnvMap() map[string]string {
	return map[string]string{
		"device": "DEVICE",
		"output": "OUTPUT",
	}
}

// GetAkCertKeyEnvMap returns environment variable bindings to AkCertSpec data
func GetAkCertKeyEnvMap() map[string]string {
	return map[string]string{
		"device":        "DEVICE",
		"expected-hex":  "EXPECTED_HEX",
		"expected-file": "EXPECTED_FILE",
		"retry":         "RETRY",
	}
}

// GetReportKeyEnvMap returns environment variable bindings to ReportSpec data
func GetReportKeyEnvMap() map[string]string {
	return map[string]string{
		"device":              "DEVICE",
		"user-data":           "USER_DATA",
		"user-data-hex":       "USER_DATA_HEX",
		"show-runtime-claims": "SHOW_RUNTIME_CLAIMS",
	}
}

// GetInfoKeyEnvMap returns environment variable bindings to InfoSpec data
func GetInfoKeyEnvMap() map[string]string {
	return map[string]string{
		"device": "DEVICE",
		"output": "OUTPUT",
	}
}
