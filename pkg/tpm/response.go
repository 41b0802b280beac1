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
	"encoding/binary"
	"fmt"

	"github.com/google/go-tpm/tpmutil"
)

// Response code building blocks from part 2 of the TCG specification
const (
	rcFmt1    tpmutil.ResponseCode = 0x0080
	rcHandle1 tpmutil.ResponseCode = 0x0100
	rcNum1    tpmutil.ResponseCode = 0x0001
)

const (
	// TPM_RC_HIERARCHY, the hierarchy is disabled or not enabled for the command
	RCHierarchy tpmutil.ResponseCode = 0x0085
	// TPM_RC_AUTH_FAIL, the authorization check failed
	RCAuthFail tpmutil.ResponseCode = 0x008E
	// TPM_RC_COMMAND_CODE, the command is not implemented
	RCCommandCode tpmutil.ResponseCode = 0x0143
	// TPM_RC_HIERARCHY qualified with the first handle. Virtual TPMs
	// report the rejected platform handle this way.
	RCHierarchyHandle1 = RCHierarchy | rcFmt1 | rcHandle1 | rcNum1
)

// allowedCodes are the response codes proving the platform hierarchy
// guarded the probe. TPM_RC_SUCCESS stays out of this set on purpose, a
// clear that actually ran is a failed probe.
var allowedCodes = map[tpmutil.ResponseCode]string{
	RCHierarchy:        "TPM_RC_HIERARCHY",
	RCHierarchyHandle1: "TPM_RC_HIERARCHY+TPM_RC_1",
	RCAuthFail:         "TPM_RC_AUTH_FAIL",
	RCCommandCode:      "TPM_RC_COMMAND_CODE",
}

// Minimum bytes needed to carry tag, size and response code
const responseHeaderSize = 10

// Verdict is the classified outcome of the clear probe
type Verdict struct {
	Code     tpmutil.ResponseCode
	TooShort bool
}

// Classify reads the response code out of a raw TPM response. Only the
// code field at bytes six to ten matters here, tag and size are not
// validated.
func Classify(response []byte) Verdict {
	if len(response) < responseHeaderSize {
		return Verdict{TooShort: true}
	}
	return Verdict{Code: tpmutil.ResponseCode(binary.BigEndian.Uint32(response[6:10]))}
}

// Passed reports whether the response proves the hierarchy is guarded
func (v Verdict) Passed() bool {
	if v.TooShort {
		return false
	}
	_, ok := allowedCodes[v.Code]
	return ok
}

// Name returns the TPM_RC name of an allow-listed code, empty otherwise
func (v Verdict) Name() string {
	return allowedCodes[v.Code]
}

// String renders the single line the probe reports
func (v Verdict) String() string {
	if v.TooShort {
		return "failed - invalid response length"
	}
	if v.Passed() {
		return "succeeded"
	}
	return fmt.Sprintf("failed - unexpected response: 0x%08X", uint32(v.Code))
}
