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
	"os"
	"path/filepath"

	"github.com/jaypipes/ghw/pkg/context"
	"github.com/jaypipes/ghw/pkg/linuxpath"
)

// GhwMock is used to construct fake DMI tables to present to ghw when
// inspecting the host. ghw describes product and BIOS from the files under
// /sys/class/dmi/id and honors the GHW_CHROOT env var as an alternative
// root for those paths, so the mock renders the wanted values into a
// throwaway chroot and points ghw at it.
type GhwMock struct {
	chroot string
	paths  *linuxpath.Paths
	dmi    map[string]string
}

// SetDMIItem sets a single entry of the fake DMI table, keys follow the
// kernel file names such as product_name or bios_vendor
func (g *GhwMock) SetDMIItem(key, value string) {
	if g.dmi == nil {
		g.dmi = map[string]string{}
	}
	g.dmi[key] = value
}

// CreateDMITables writes the DMI entries under a fresh chroot and sets the
// env var GHW_CHROOT so the ghw library picks it up
func (g *GhwMock) CreateDMITables() {
	d, _ := os.MkdirTemp("", "ghwmock")
	g.chroot = d
	ctx := context.New()
	ctx.Chroot = d
	g.paths = linuxpath.New(ctx)
	_ = os.Setenv("GHW_CHROOT", g.chroot)

	idDir := filepath.Join(g.paths.SysClassDMI, "id")
	_ = os.MkdirAll(idDir, 0755)
	for item, value := range g.dmi {
		_ = os.WriteFile(filepath.Join(idDir, item), []byte(value+"\n"), 0644)
	}
}

// Clean removes the chroot dir and unsets the env var
func (g *GhwMock) Clean() {
	_ = os.Unsetenv("GHW_CHROOT")
	_ = os.RemoveAll(g.chroot)
}
