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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"
)

var _ = Describe("AkCert", Label("akcert", "cmd"), func() {
	BeforeEach(func() {
		rootCmd = NewRootCmd()
		_ = NewAkCertCmd(rootCmd)
	})
	AfterEach(func() {
		viper.Reset()
	})
	It("Errors out giving the expected certificate twice", Label("flags"), func() {
		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		_, _, err := executeCommandC(rootCmd, "akcert", "--config-dir", "/none",
			"--expected-hex", "deadbeef", "--expected-file", "some.crt")
		// Restore cobra output
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		Expect(err).ToNot(BeNil())
		Expect(buf.String()).To(ContainSubstring("Usage:"))
		Expect(err.Error()).To(ContainSubstring("'expected-hex' and 'expected-file' are mutually exclusive options"))
	})
	It("Errors out retrying without an expectation", Label("flags"), func() {
		_, _, err := executeCommandC(rootCmd, "akcert", "--config-dir", "/none", "--retry", "3")
		Expect(err).ToNot(BeNil())
		Expect(err.Error()).To(ContainSubstring("retry requires expected AK certificate data"))
	})
	It("Errors out on broken expected hex", Label("flags"), func() {
		_, _, err := executeCommandC(rootCmd, "akcert", "--config-dir", "/none", "--expected-hex", "zz")
		Expect(err).ToNot(BeNil())
		Expect(err.Error()).To(ContainSubstring("parsing expected AK certificate hex"))
	})
})
