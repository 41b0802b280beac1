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

package utils

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Bytes shown per hexdump row
const hexdumpWidth = 16

// ParseHexBytes decodes a hex string into bytes. Surrounding whitespace
// and a leading 0x prefix are tolerated, case is not significant.
func ParseHexBytes(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("hex data must contain an even number of characters")
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return nil, fmt.Errorf("invalid hex character '%c'", r)
		}
	}
	return hex.DecodeString(s)
}

// Hexdump renders data as offset prefixed hex rows with an ASCII gutter.
// Rows beyond the limit are elided with a trailing note. A limit of zero
// dumps everything.
func Hexdump(data []byte, limit int) string {
	var b strings.Builder
	shown := data
	if limit > 0 && len(data) > limit {
		shown = data[:limit]
	}
	for off := 0; off < len(shown); off += hexdumpWidth {
		end := off + hexdumpWidth
		if end > len(shown) {
			end = len(shown)
		}
		row := shown[off:end]
		fmt.Fprintf(&b, "%04x: ", off)
		for _, v := range row {
			fmt.Fprintf(&b, "%02x ", v)
		}
		for i := len(row); i < hexdumpWidth; i++ {
			b.WriteString("   ")
		}
		b.WriteString(" |")
		for _, v := range row {
			if v >= 0x20 && v <= 0x7E {
				b.WriteByte(v)
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteString("|\n")
	}
	if limit > 0 && len(data) > limit {
		fmt.Fprintf(&b, "... %d additional bytes not shown (total %d bytes)\n", len(data)-limit, len(data))
	}
	return b.String()
}

// FormatNVData renders an NV payload with its label, byte count and a
// bounded hexdump
func FormatNVData(label string, data []byte, limit int) string {
	if len(data) == 0 {
		return fmt.Sprintf("%s data: <empty>\n", label)
	}
	return fmt.Sprintf("%s data (%d bytes):\n%s", label, len(data), Hexdump(data, limit))
}
