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

package types

import (
	"io"
)

// TPMDevice is an open handle to a TPM character device. Commands are
// written and responses read back as raw bytes.
type TPMDevice interface {
	io.ReadWriteCloser
}

// TPMClient groups all TPM interactions, so we can plug a fake device in tests
type TPMClient interface {
	Open(path string) (TPMDevice, error)
	OpenFirst(paths []string) (TPMDevice, string, error)
	ReadIndex(dev TPMDevice, index uint32) ([]byte, error)
	WriteIndex(dev TPMDevice, index uint32, data []byte) error
	EnsureIndex(dev TPMDevice, index uint32, size uint16) error
	Manufacturer(dev TPMDevice) (string, error)
	GetLogger() Logger
	SetLogger(logger Logger)
}
