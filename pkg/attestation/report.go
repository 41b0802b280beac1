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

package attestation

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// The attestation report NV index holds a little endian IGVM attestation
// request envelope. A fixed size request body comes first, the runtime
// claims JSON document is appended right after it.
const (
	ReportSignature uint32 = 0x414c4348
	ReportVersion   uint32 = 2

	// Space reserved inside the envelope for the hardware report
	ReportSizeMax = 0x4a0

	RequestVersion1   uint32 = 1
	RequestTypeAkCert uint32 = 2

	headerSize        = 32
	RequestDataSize   = 20
	RequestBaseSize   = headerSize + ReportSizeMax + RequestDataSize
	RequestDataOffset = RequestBaseSize - RequestDataSize
)

// RequestHeader is the fixed header of the attestation request envelope
type RequestHeader struct {
	Signature   uint32
	Version     uint32
	ReportSize  uint32
	RequestType uint32
	Status      uint32
	Reserved    [3]uint32
}

// RequestData describes the variable payload appended to the envelope
type RequestData struct {
	DataSize           uint32
	Version            uint32
	ReportType         uint32
	ReportDataHashType uint32
	VariableDataSize   uint32
}

// RuntimeClaims extracts the runtime claims JSON document from an
// attestation report envelope. It returns nil without an error when the
// envelope declares no variable data.
func RuntimeClaims(report []byte) ([]byte, error) {
	if len(report) < RequestBaseSize {
		return nil, fmt.Errorf("attestation report length %d is smaller than base request size %d", len(report), RequestBaseSize)
	}

	var header RequestHeader
	if err := binary.Read(bytes.NewReader(report), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading attestation report header: %w", err)
	}
	if header.Version != ReportVersion {
		return nil, fmt.Errorf("unexpected header version %d", header.Version)
	}
	if header.Signature != ReportSignature {
		return nil, fmt.Errorf("unexpected attestation signature %#x", header.Signature)
	}
	if header.RequestType != RequestTypeAkCert {
		return nil, fmt.Errorf("unexpected attestation request type %d", header.RequestType)
	}

	reportSize := int(header.ReportSize)
	if reportSize < RequestBaseSize {
		return nil, fmt.Errorf("reported attestation size %d smaller than base request %d", reportSize, RequestBaseSize)
	}
	if reportSize > len(report) {
		return nil, fmt.Errorf("attestation report claims %d bytes but only %d bytes provided", reportSize, len(report))
	}

	var data RequestData
	reader := bytes.NewReader(report[RequestDataOffset : RequestDataOffset+RequestDataSize])
	if err := binary.Read(reader, binary.LittleEndian, &data); err != nil {
		return nil, fmt.Errorf("reading attestation request data: %w", err)
	}
	if data.Version != RequestVersion1 {
		return nil, fmt.Errorf("unexpected attestation request version %d", data.Version)
	}

	claimsLen := int(data.VariableDataSize)
	if claimsLen == 0 {
		return nil, nil
	}
	if int(data.DataSize) != RequestDataSize+claimsLen {
		return nil, fmt.Errorf("attestation request data size mismatch")
	}
	if RequestBaseSize+claimsLen != reportSize {
		return nil, fmt.Errorf("runtime claims extend beyond attestation report")
	}

	claims := report[RequestBaseSize : RequestBaseSize+claimsLen]
	var doc interface{}
	if err := json.Unmarshal(claims, &doc); err != nil {
		return nil, fmt.Errorf("parsing runtime claims JSON: %w", err)
	}
	return claims, nil
}
