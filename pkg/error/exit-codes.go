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

// provides a custom error interface and exit codes to use on the tpmprobe CLI
package error

//
// Provided exit codes for the tpmprobe CLI

// To keep the codes easy to collect you have to respect the structure:
//
// comment that explains the error
// const NamedConstant = ERRORCODE
//
// This way the codes can be scraped into a Markdown list of EXITCODE -> COMMENT

// Error closing a file or device
const CloseFile = 10

// Error reading the run config
const ReadingRunConfig = 11

// Error reading the spec config
const ReadingSpecConfig = 12

// Wrong flag combination used in cmd
const WrongFlags = 13

// Error opening a TPM device
const OpenDevice = 14

// Error transmitting a command to the TPM device
const TransmitCommand = 15

// Error reading an NV index
const ReadIndex = 16

// Error writing an NV index
const WriteIndex = 17

// Error defining an NV index
const DefineIndex = 18

// AK certificate did not match the expected data
const CertMismatch = 19

// Error decoding an attestation report
const DecodeReport = 20

// Error collecting the platform info
const CollectInfo = 21

// Error dumping a result to a file
const DumpFile = 22

// Error opening a file
const OpenFile = 23

// Error creating a file
const CreateFile = 24

// Unknown error
const Unknown int = 255
