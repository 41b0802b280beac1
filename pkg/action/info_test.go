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

package action_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-vfs/v4"
	"github.com/twpayne/go-vfs/v4/vfst"

	"github.com/guestkit/tpmprobe/pkg/action"
	"github.com/guestkit/tpmprobe/pkg/config"
	"github.com/guestkit/tpmprobe/pkg/constants"
	probeError "github.com/guestkit/tpmprobe/pkg/error"
	"github.com/guestkit/tpmprobe/pkg/mocks"
	"github.com/guestkit/tpmprobe/pkg/types"
)

var _ = Describe("Info Action", func() {
	var cfg *types.RunConfig
	var spec *types.InfoSpec
	var tpmClient *mocks.FakeTPMClient
	var dev *mocks.FakeTPMDevice
	var efiVars *mocks.FakeEfiVariables
	var inspector *mocks.FakeHardwareInspector
	var fs vfs.FS
	var cleanup func()
	var memLog *bytes.Buffer
	var logger types.Logger

	BeforeEach(func() {
		memLog = &bytes.Buffer{}
		logger = types.NewBufferLogger(memLog)
		logger.SetLevel(logrus.DebugLevel)
		fs, cleanup, _ = vfst.NewTestFS(map[string]interface{}{})
		dev = &mocks.FakeTPMDevice{}
		tpmClient = mocks.NewFakeTPMClient()
		tpmClient.Devices[constants.TPMResourceMgrDevice] = dev
		tpmClient.Vendor = "MSFT"
		efiVars = mocks.NewFakeEfiVariables()
		efiVars.Vars["SecureBoot"] = []byte{1}
		efiVars.Vars["SetupMode"] = []byte{0}
		inspector = &mocks.FakeHardwareInspector{
			Info: &types.HostInfo{
				ProductName: "Virtual Machine",
				Vendor:      "Microsoft Corporation",
				BIOSVendor:  "American Megatrends Inc.",
				BIOSVersion: "090008",
			},
		}
		cfg = config.NewRunConfig(
			config.WithFs(fs),
			config.WithLogger(logger),
			config.WithTPMClient(tpmClient),
			config.WithEfiVariables(efiVars),
			config.WithHardwareInspector(inspector),
		)
		spec = config.NewInfoSpec()
	})

	AfterEach(func() {
		cleanup()
	})

	It("collects the full platform summary", func() {
		result, err := action.RunInfo(cfg, spec)
		Expect(err).To(BeNil())
		Expect(result.Device).To(Equal(constants.TPMResourceMgrDevice))
		Expect(result.Manufacturer).To(Equal("MSFT"))
		Expect(result.Firmware.EFIVariables).To(BeTrue())
		Expect(result.Firmware.SecureBoot).To(BeTrue())
		Expect(result.Firmware.SetupMode).To(BeFalse())
		Expect(result.Host.ProductName).To(Equal("Virtual Machine"))
		Expect(result.Host.BIOSVersion).To(Equal("090008"))
		Expect(dev.Closed).To(BeTrue())
	})

	It("reports a missing TPM instead of failing", func() {
		tpmClient.Devices = map[string]*mocks.FakeTPMDevice{}
		result, err := action.RunInfo(cfg, spec)
		Expect(err).To(BeNil())
		Expect(result.Device).To(BeEmpty())
		Expect(result.Manufacturer).To(BeEmpty())
		Expect(result.Host).NotTo(BeNil())
		Expect(memLog.String()).To(ContainSubstring("no usable TPM device"))
	})

	It("keeps going when the manufacturer can not be read", func() {
		tpmClient.VendorErr = errors.New("TPM_RC_VALUE")
		result, err := action.RunInfo(cfg, spec)
		Expect(err).To(BeNil())
		Expect(result.Manufacturer).To(BeEmpty())
		Expect(result.Host).NotTo(BeNil())
		Expect(dev.Closed).To(BeTrue())
	})

	It("reports firmware without EFI support", func() {
		efiVars.Unsupported = true
		result, err := action.RunInfo(cfg, spec)
		Expect(err).To(BeNil())
		Expect(result.Firmware.EFIVariables).To(BeFalse())
		Expect(result.Firmware.SecureBoot).To(BeFalse())
	})

	It("fails when host information is unavailable", func() {
		inspector.Err = errors.New("DMI tables unreadable")
		_, err := action.RunInfo(cfg, spec)
		Expect(err).To(HaveOccurred())
		probeErr := &probeError.ProbeError{}
		Expect(errors.As(err, &probeErr)).To(BeTrue())
		Expect(probeErr.ExitCode()).To(Equal(probeError.CollectInfo))
		Expect(dev.Closed).To(BeTrue())
	})

	It("dumps the summary to the requested file", func() {
		spec.Output = "/run/probe/info.yaml"
		_, err := action.RunInfo(cfg, spec)
		Expect(err).To(BeNil())
		data, err := fs.ReadFile(spec.Output)
		Expect(err).To(BeNil())
		Expect(string(data)).To(ContainSubstring("manufacturer: MSFT"))
		Expect(string(data)).To(ContainSubstring("secure-boot: true"))
	})
})
