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

package hardware

import (
	"fmt"

	"github.com/jaypipes/ghw"

	"github.com/guestkit/tpmprobe/pkg/types"
)

// Inspector reads the host identity from the DMI tables via ghw
type Inspector struct{}

var _ types.HardwareInspector = Inspector{}

// HostInfo collects product and BIOS identity
func (Inspector) HostInfo() (*types.HostInfo, error) {
	product, err := ghw.Product()
	if err != nil {
		return nil, fmt.Errorf("reading product info: %w", err)
	}
	bios, err := ghw.BIOS()
	if err != nil {
		return nil, fmt.Errorf("reading BIOS info: %w", err)
	}
	return &types.HostInfo{
		ProductName: product.Name,
		Vendor:      product.Vendor,
		Serial:      product.SerialNumber,
		BIOSVendor:  bios.Vendor,
		BIOSVersion: bios.Version,
		BIOSDate:    bios.Date,
	}, nil
}
