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

package tpm

import (
	"fmt"
	"strings"

	"github.com/google/go-tpm/tpm2"
	"github.com/google/go-tpm/tpmutil"

	"github.com/guestkit/tpmprobe/pkg/types"
)

// ReadIndex returns the full contents of an NV index. Reads authorize
// through the owner hierarchy with an empty password, which is how host
// provisioned indexes are published to the guest.
func (c Client) ReadIndex(dev types.TPMDevice, index uint32) ([]byte, error) {
	handle := tpmutil.Handle(index)
	pub, err := tpm2.NVReadPublic(dev, handle)
	if err != nil {
		return nil, fmt.Errorf("NV index 0x%08X not found: %w", index, err)
	}
	c.Logger.Debugf("NV index 0x%08X holds %d bytes", index, pub.DataSize)
	data, err := tpm2.NVReadEx(dev, handle, tpm2.HandleOwner, "", 0)
	if err != nil {
		return nil, fmt.Errorf("reading NV index 0x%08X: %w", index, err)
	}
	return data, nil
}

// WriteIndex replaces the contents of an NV index from offset zero
func (c Client) WriteIndex(dev types.TPMDevice, index uint32, data []byte) error {
	handle := tpmutil.Handle(index)
	err := tpm2.NVWrite(dev, tpm2.HandleOwner, handle, "", tpmutil.U16Bytes(data), 0)
	if err != nil {
		return fmt.Errorf("writing %d bytes to NV index 0x%08X: %w", len(data), index, err)
	}
	c.Logger.Debugf("Wrote %d bytes to NV index 0x%08X", len(data), index)
	return nil
}

// EnsureIndex defines an NV index under the owner hierarchy unless it
// already exists
func (c Client) EnsureIndex(dev types.TPMDevice, index uint32, size uint16) error {
	handle := tpmutil.Handle(index)
	if _, err := tpm2.NVReadPublic(dev, handle); err == nil {
		c.Logger.Debugf("NV index 0x%08X already defined", index)
		return nil
	}
	attrs := tpm2.AttrOwnerWrite | tpm2.AttrOwnerRead | tpm2.AttrAuthWrite | tpm2.AttrAuthRead
	err := tpm2.NVDefineSpace(dev, tpm2.HandleOwner, handle, "", "", nil, attrs, size)
	if err != nil {
		return fmt.Errorf("defining NV index 0x%08X with %d bytes: %w", index, size, err)
	}
	c.Logger.Debugf("Defined NV index 0x%08X with %d bytes", index, size)
	return nil
}

// Manufacturer returns the TPM manufacturer identifier from the fixed
// properties capability
func (c Client) Manufacturer(dev types.TPMDevice) (string, error) {
	vendor, err := tpm2.GetManufacturer(dev)
	if err != nil {
		return "", fmt.Errorf("reading TPM manufacturer: %w", err)
	}
	return strings.TrimRight(string(vendor), "\x00 "), nil
}
