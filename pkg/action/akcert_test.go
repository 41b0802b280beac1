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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/guestkit/tpmprobe/pkg/action"
	"github.com/guestkit/tpmprobe/pkg/config"
	"github.com/guestkit/tpmprobe/pkg/constants"
	probeError "github.com/guestkit/tpmprobe/pkg/error"
	"github.com/guestkit/tpmprobe/pkg/mocks"
	"github.com/guestkit/tpmprobe/pkg/types"
)

var _ = Describe("AkCert Action", func() {
	var cfg *types.RunConfig
	var spec *types.AkCertSpec
	var tpmClient *mocks.FakeTPMClient
	var dev *mocks.FakeTPMDevice
	var memLog *bytes.Buffer
	var logger types.Logger
	var cert []byte

	BeforeEach(func() {
		memLog = &bytes.Buffer{}
		logger = types.NewBufferLogger(memLog)
		logger.SetLevel(logrus.DebugLevel)
		dev = &mocks.FakeTPMDevice{}
		tpmClient = mocks.NewFakeTPMClient()
		tpmClient.Devices[constants.TPMResourceMgrDevice] = dev
		cert = []byte("-----BEGIN CERTIFICATE-----\nAKCERTDATA\n-----END CERTIFICATE-----\n")
		tpmClient.Indexes[constants.AkCertNVIndex] = cert
		cfg = config.NewRunConfig(
			config.WithLogger(logger),
			config.WithTPMClient(tpmClient),
		)
		spec = config.NewAkCertSpec()
		spec.RetryDelay = time.Millisecond
	})

	It("reads the certificate when no expectation is given", func() {
		result, err := action.RunAkCert(cfg, spec)
		Expect(err).To(BeNil())
		Expect(result.Data).To(Equal(cert))
		Expect(result.Matched).To(BeFalse())
		Expect(result.Device).To(Equal(constants.TPMResourceMgrDevice))
		Expect(dev.Closed).To(BeTrue())
	})

	It("falls back to the direct device", func() {
		tpmClient.Devices = map[string]*mocks.FakeTPMDevice{
			constants.TPMDirectDevice: dev,
		}
		result, err := action.RunAkCert(cfg, spec)
		Expect(err).To(BeNil())
		Expect(result.Device).To(Equal(constants.TPMDirectDevice))
	})

	It("honors an explicit device", func() {
		tpmClient.Devices["/dev/tpmrm1"] = dev
		spec.Device = "/dev/tpmrm1"
		result, err := action.RunAkCert(cfg, spec)
		Expect(err).To(BeNil())
		Expect(result.Device).To(Equal("/dev/tpmrm1"))
	})

	It("reports a match against expected contents", func() {
		spec.Expected = cert
		result, err := action.RunAkCert(cfg, spec)
		Expect(err).To(BeNil())
		Expect(result.Matched).To(BeTrue())
		Expect(tpmClient.ReadCount(constants.AkCertNVIndex)).To(Equal(1))
	})

	It("fails on a mismatch with no retries left", func() {
		spec.Expected = []byte("something else entirely")
		result, err := action.RunAkCert(cfg, spec)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(Equal("AK certificate contents did not match expected value"))
		probeErr := &probeError.ProbeError{}
		Expect(errors.As(err, &probeErr)).To(BeTrue())
		Expect(probeErr.ExitCode()).To(Equal(probeError.CertMismatch))
		Expect(result.Data).To(Equal(cert))
		Expect(result.Matched).To(BeFalse())
		Expect(dev.Closed).To(BeTrue())
	})

	It("retries until the certificate shows up", func() {
		reads := 0
		tpmClient.SideEffect = func(index uint32) ([]byte, error) {
			reads++
			if reads < 3 {
				return []byte("stale provisioning data"), nil
			}
			return cert, nil
		}
		spec.Expected = cert
		spec.Retries = 5
		result, err := action.RunAkCert(cfg, spec)
		Expect(err).To(BeNil())
		Expect(result.Matched).To(BeTrue())
		Expect(reads).To(Equal(3))
		Expect(memLog.String()).To(ContainSubstring("AK certificate mismatch; retrying"))
	})

	It("retries reads that fail while the index is being provisioned", func() {
		reads := 0
		tpmClient.SideEffect = func(index uint32) ([]byte, error) {
			reads++
			if reads == 1 {
				return nil, errors.New("NV index 0x01C101D0 not found")
			}
			return cert, nil
		}
		spec.Expected = cert
		spec.Retries = 1
		result, err := action.RunAkCert(cfg, spec)
		Expect(err).To(BeNil())
		Expect(result.Matched).To(BeTrue())
		Expect(reads).To(Equal(2))
	})

	It("gives up when reads keep failing", func() {
		tpmClient.ReadErr = errors.New("NV index 0x01C101D0 not found")
		spec.Expected = cert
		spec.Retries = 2
		_, err := action.RunAkCert(cfg, spec)
		Expect(err).To(HaveOccurred())
		probeErr := &probeError.ProbeError{}
		Expect(errors.As(err, &probeErr)).To(BeTrue())
		Expect(probeErr.ExitCode()).To(Equal(probeError.ReadIndex))
		Expect(tpmClient.ReadCount(constants.AkCertNVIndex)).To(Equal(3))
		Expect(dev.Closed).To(BeTrue())
	})

	It("rejects certificates above the NV read limit", func() {
		tpmClient.Indexes[constants.AkCertNVIndex] = make([]byte, constants.MaxNVReadSize+1)
		_, err := action.RunAkCert(cfg, spec)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(Equal("AK certificate size 4097 exceeds maximum 4096 bytes"))
		probeErr := &probeError.ProbeError{}
		Expect(errors.As(err, &probeErr)).To(BeTrue())
		Expect(probeErr.ExitCode()).To(Equal(probeError.ReadIndex))
	})

	It("returns an error when no device can be opened", func() {
		tpmClient.Devices = map[string]*mocks.FakeTPMDevice{}
		_, err := action.RunAkCert(cfg, spec)
		Expect(err).To(HaveOccurred())
		probeErr := &probeError.ProbeError{}
		Expect(errors.As(err, &probeErr)).To(BeTrue())
		Expect(probeErr.ExitCode()).To(Equal(probeError.OpenDevice))
	})
})
