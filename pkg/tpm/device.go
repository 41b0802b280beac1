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
	"io"

	"github.com/google/go-tpm/tpmutil"

	"github.com/guestkit/tpmprobe/pkg/types"
)

// Largest response buffer the kernel character devices produce
const maxTPMResponse = 4096

// Client talks to TPM character devices through the kernel interface
type Client struct {
	Logger types.Logger
}

var _ types.TPMClient = (*Client)(nil)

func NewClient(logger types.Logger) *Client {
	return &Client{Logger: logger}
}

// Open opens the given TPM character device for raw command exchange
func (c Client) Open(path string) (types.TPMDevice, error) {
	dev, err := tpmutil.OpenTPM(path)
	if err != nil {
		return nil, fmt.Errorf("opening TPM device %s: %w", path, err)
	}
	c.Logger.Debugf("Opened TPM device %s", path)
	return dev, nil
}

// OpenFirst opens the first usable device from the candidate list and
// returns it together with its path
func (c Client) OpenFirst(paths []string) (types.TPMDevice, string, error) {
	var lastErr error
	for _, path := range paths {
		dev, err := c.Open(path)
		if err == nil {
			return dev, path, nil
		}
		c.Logger.Debugf("TPM device %s not usable: %s", path, err.Error())
		lastErr = err
	}
	return nil, "", fmt.Errorf("no TPM device found: %w", lastErr)
}

func (c *Client) GetLogger() types.Logger {
	return c.Logger
}

func (c *Client) SetLogger(logger types.Logger) {
	c.Logger = logger
}

// Transmit writes a raw command to the device and reads back a single
// response. One write, one read, no framing and no deadline, so short or
// hung responses surface exactly as the device produced them.
func Transmit(dev io.ReadWriter, command []byte) ([]byte, error) {
	if _, err := dev.Write(command); err != nil {
		return nil, fmt.Errorf("writing command to TPM device: %w", err)
	}
	response := make([]byte, maxTPMResponse)
	n, err := dev.Read(response)
	if err != nil {
		return nil, fmt.Errorf("reading response from TPM device: %w", err)
	}
	return response[:n], nil
}
