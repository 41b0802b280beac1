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
	"encoding/binary"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/guestkit/tpmprobe/pkg/action"
	"github.com/guestkit/tpmprobe/pkg/attestation"
	"github.com/guestkit/tpmprobe/pkg/config"
	"github.com/guestkit/tpmprobe/pkg/constants"
	probeError "github.com/guestkit/tpmprobe/pkg/error"
	"github.com/guestkit/tpmprobe/pkg/mocks"
	"github.com/guestkit/tpmprobe/pkg/types"
)

// reportEnvelope wraps the given claims document into a well formed
// attestation request envelope
func reportEnvelope(claims []byte) []byte {
	buf := bytes.NewBuffer(nil)
	header := attestation.RequestHeader{
		Signature:   attestation.ReportSignature,
		Version:     attestation.ReportVersion,
		ReportSize:  uint32(attestation.RequestBaseSize + len(claims)),
		RequestType: attestation.RequestTypeAkCert,
	}
	_ = binary.Write(buf, binary.LittleEndian, header)
	buf.Write(make([]byte, attestation.RequestDataOffset-buf.Len()))
	data := attestation.RequestData{
		DataSize:         uint32(attestation.RequestDataSize + len(claims)),
		Version:          attestation.RequestVersion1,
		ReportType:       attestation.RequestTypeAkCert,
		VariableDataSize: uint32(len(claims)),
	}
	_ = binary.Write(buf, binary.LittleEndian, data)
	buf.Write(claims)
	return buf.Bytes()
}

var _ = Describe("Report Action", func() {
	var cfg *types.RunConfig
	var spec *types.ReportSpec
	var tpmClient *mocks.FakeTPMClient
	var dev *mocks.FakeTPMDevice
	var memLog *bytes.Buffer
	var logger types.Logger
	var claims []byte

	BeforeEach(func() {
		memLog = &bytes.Buffer{}
		logger = types.NewBufferLogger(memLog)
		logger.SetLevel(logrus.DebugLevel)
		dev = &mocks.FakeTPMDevice{}
		tpmClient = mocks.NewFakeTPMClient()
		tpmClient.Devices[constants.TPMResourceMgrDevice] = dev
		claims = []byte(`{"user-data":"deadbeef","keys":[]}`)
		tpmClient.Indexes[constants.ReportNVIndex] = reportEnvelope(claims)
		cfg = config.NewRunConfig(
			config.WithLogger(logger),
			config.WithTPMClient(tpmClient),
		)
		spec = config.NewReportSpec()
	})

	It("pads user data to the guest input size", func() {
		payload := action.BuildGuestInputPayload([]byte("custom input"))
		Expect(payload).To(HaveLen(constants.GuestInputSize))
		Expect(string(payload[:12])).To(Equal("custom input"))
		Expect(payload[12:]).To(Equal(make([]byte, constants.GuestInputSize-12)))
	})

	It("stamps a timestamped marker without user data", func() {
		payload := action.BuildGuestInputPayload(nil)
		Expect(payload).To(HaveLen(constants.GuestInputSize))
		Expect(string(payload[:9])).To(Equal("tpmprobe "))
		Expect(payload[25:]).To(Equal(make([]byte, constants.GuestInputSize-25)))
	})

	It("writes guest input and reads the report back", func() {
		spec.Payload = []byte("attestation test input")
		result, err := action.RunReport(cfg, spec)
		Expect(err).To(BeNil())
		Expect(result.GuestInput).To(HaveLen(constants.GuestInputSize))
		Expect(string(result.GuestInput[:22])).To(Equal("attestation test input"))
		Expect(result.Report).To(Equal(reportEnvelope(claims)))
		Expect(result.Claims).To(BeNil())
		Expect(result.Device).To(Equal(constants.TPMResourceMgrDevice))
		Expect(tpmClient.Defined[uint32(constants.GuestInputNVIndex)]).To(Equal(uint16(constants.GuestInputSize)))
		Expect(dev.Closed).To(BeTrue())
	})

	It("decodes runtime claims on request", func() {
		spec.ShowRuntimeClaims = true
		result, err := action.RunReport(cfg, spec)
		Expect(err).To(BeNil())
		Expect(result.Claims).To(Equal(claims))
	})

	It("returns no claims for an envelope without variable data", func() {
		tpmClient.Indexes[constants.ReportNVIndex] = reportEnvelope(nil)
		spec.ShowRuntimeClaims = true
		result, err := action.RunReport(cfg, spec)
		Expect(err).To(BeNil())
		Expect(result.Claims).To(BeNil())
	})

	It("fails decoding claims from a mangled envelope", func() {
		tpmClient.Indexes[constants.ReportNVIndex] = make([]byte, 100)
		spec.ShowRuntimeClaims = true
		_, err := action.RunReport(cfg, spec)
		Expect(err).To(HaveOccurred())
		probeErr := &probeError.ProbeError{}
		Expect(errors.As(err, &probeErr)).To(BeTrue())
		Expect(probeErr.ExitCode()).To(Equal(probeError.DecodeReport))
		Expect(dev.Closed).To(BeTrue())
	})

	It("fails when the report index is missing", func() {
		delete(tpmClient.Indexes, uint32(constants.ReportNVIndex))
		_, err := action.RunReport(cfg, spec)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("0x01400001 not found"))
		probeErr := &probeError.ProbeError{}
		Expect(errors.As(err, &probeErr)).To(BeTrue())
		Expect(probeErr.ExitCode()).To(Equal(probeError.ReadIndex))
	})

	It("rejects reports above the attestation read limit", func() {
		tpmClient.SideEffect = func(index uint32) ([]byte, error) {
			if index == constants.ReportNVIndex {
				return make([]byte, constants.MaxAttestationReadSize+1), nil
			}
			return tpmClient.Indexes[index], nil
		}
		_, err := action.RunReport(cfg, spec)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(Equal("attestation report size 2601 exceeds maximum 2600 bytes"))
	})

	It("fails when the guest input index can not be defined", func() {
		tpmClient.DefineErr = errors.New("NV space exhausted")
		_, err := action.RunReport(cfg, spec)
		Expect(err).To(HaveOccurred())
		probeErr := &probeError.ProbeError{}
		Expect(errors.As(err, &probeErr)).To(BeTrue())
		Expect(probeErr.ExitCode()).To(Equal(probeError.DefineIndex))
		Expect(dev.Closed).To(BeTrue())
	})

	It("fails when the guest input can not be written", func() {
		tpmClient.WriteErr = errors.New("NV index is write locked")
		_, err := action.RunReport(cfg, spec)
		Expect(err).To(HaveOccurred())
		probeErr := &probeError.ProbeError{}
		Expect(errors.As(err, &probeErr)).To(BeTrue())
		Expect(probeErr.ExitCode()).To(Equal(probeError.WriteIndex))
	})

	It("returns an error when no device can be opened", func() {
		tpmClient.Devices = map[string]*mocks.FakeTPMDevice{}
		_, err := action.RunReport(cfg, spec)
		Expect(err).To(HaveOccurred())
		probeErr := &probeError.ProbeError{}
		Expect(errors.As(err, &probeErr)).To(BeTrue())
		Expect(probeErr.ExitCode()).To(Equal(probeError.OpenDevice))
	})
})
