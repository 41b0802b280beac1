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

package cmd

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	probeError "github.com/guestkit/tpmprobe/pkg/error"
)

var _ = Describe("Clear", Label("clear", "cmd"), func() {
	BeforeEach(func() {
		rootCmd = NewRootCmd()
		_ = NewClearCmd(rootCmd)
	})
	AfterEach(func() {
		viper.Reset()
	})
	It("errors out on unexpected arguments", Label("args"), func() {
		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		_, _, err := executeCommandC(rootCmd, "clear", "whatever")
		// Restore cobra output
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		Expect(err).ToNot(BeNil())
		Expect(buf.String()).To(ContainSubstring("Usage:"))
	})
	It("errors out with an empty device", Label("flags"), func() {
		_, _, err := executeCommandC(rootCmd, "clear", "--config-dir", "/none", "--device", "")
		Expect(err).ToNot(BeNil())
		Expect(err.Error()).To(ContainSubstring("undefined TPM device"))
		probeErr := &probeError.ProbeError{}
		Expect(errors.As(err, &probeErr)).To(BeTrue())
		Expect(probeErr.ExitCode()).To(Equal(probeError.ReadingSpecConfig))
	})
})
