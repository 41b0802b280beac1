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
	"github.com/google/go-tpm/tpmutil"
)

const (
	// TPM_ST_NO_SESSIONS, no authorization area follows the handles
	TagNoSessions tpmutil.Tag = 0x8001
	// TPM_CC_Clear
	CmdClear tpmutil.Command = 0x00000126
	// TPM_RH_PLATFORM
	HandlePlatform tpmutil.Handle = 0x4000000C

	// Header (tag, size, command code) plus the hierarchy handle
	clearCommandSize = 14
)

// ClearPlatformCommand is the complete TPM2_Clear command addressed to the
// platform hierarchy. The buffer is kept literal so exactly these bytes
// reach the device, with no marshalling step in between.
var ClearPlatformCommand = [clearCommandSize]byte{
	0x80, 0x01, // TPM_ST_NO_SESSIONS
	0x00, 0x00, 0x00, 0x0E, // commandSize
	0x00, 0x00, 0x01, 0x26, // TPM_CC_Clear
	0x40, 0x00, 0x00, 0x0C, // TPM_RH_PLATFORM
}
