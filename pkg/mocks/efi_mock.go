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
	"fmt"

	"github.com/guestkit/tpmprobe/pkg/types"
)

// FakeEfiVariables is an in-memory EFI variable store
type FakeEfiVariables struct {
	Vars        map[string][]byte
	Unsupported bool
}

var _ types.EfiVariables = (*FakeEfiVariables)(nil)

func NewFakeEfiVariables() *FakeEfiVariables {
	return &FakeEfiVariables{Vars: map[string][]byte{}}
}

func (f *FakeEfiVariables) Supported() bool {
	return !f.Unsupported
}

func (f *FakeEfiVariables) ReadVariable(name string) ([]byte, error) {
	data, ok := f.Vars[name]
	if !ok {
		return nil, fmt.Errorf("EFI variable %s does not exist", name)
	}
	return data, nil
}
