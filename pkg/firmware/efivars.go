// nolint:goheader

// This file is part of nullboot
// Copyright 2021 Canonical Ltd.
// SPDX-License-Identifier: GPL-3.0-only

package firmware

import (
	efi "github.com/canonical/go-efilib"

	"github.com/guestkit/tpmprobe/pkg/types"
)

// RealEFIVariables provides the real implementation of efivars
type RealEFIVariables struct{}

var _ types.EfiVariables = RealEFIVariables{}

// Supported indicates whether variables can be accessed
func (RealEFIVariables) Supported() bool {
	_, err := efi.ListVariables()
	return err == nil
}

// ReadVariable proxy
func (RealEFIVariables) ReadVariable(name string) ([]byte, error) {
	data, _, err := efi.ReadVariable(name, efi.GlobalVariable)
	return data, err
}
