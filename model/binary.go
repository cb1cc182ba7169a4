// Copyright 2024 UDPARSE contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sort"

	"udparse/uderror"
)

// Binary model layout:
//
//	bytes 0-3    magic "TT01"
//	bytes 4-9    reserved, must be zero
//	byte  10     endianness flag (0 = little-endian)
//	byte  11     model type (2 = dependency parser)
//	bytes 12-43  SHA-256 over the payload
//	bytes 44-    payload
//
// The payload is a deterministic sequence of uvarint-length-prefixed
// strings, little-endian float64 values and uvarints. Transition
// names inside the weight table are stored as indexes into the
// transition inventory, which is what makes the binary form strictly
// smaller than the structured one.
const (
	binaryMagic           = "TT01"
	binaryHeaderSize      = 44
	checksumOffset        = 12
	payloadOffset         = 44
	EndianLittle     byte = 0
	TypeDepParser    byte = 2
)

// EncodeBinary serializes the model into the binary interchange form.
// The encoding is deterministic: the same model always produces the
// same bytes.
func EncodeBinary(m *Model) ([]byte, error) {
	transIdx := make(map[string]int, len(m.Transitions))
	for i, t := range m.Transitions {
		transIdx[t] = i
	}

	var payload []byte
	payload = appendString(payload, m.Version)
	payload = appendString(payload, m.Labelset)
	payload = appendString(payload, m.TrainedOn)
	payload = appendString(payload, m.Provenance.TrainCorpus)
	payload = appendString(payload, m.Provenance.CorpusVersion)
	payload = appendString(payload, m.Provenance.TrainDate)
	payload = appendString(payload, m.Provenance.OracleType)
	payload = appendFloat(payload, m.Provenance.UAS)
	payload = appendFloat(payload, m.Provenance.LAS)
	payload = binary.AppendUvarint(payload, uint64(m.Provenance.PrunedFrom))
	payload = binary.AppendUvarint(payload, uint64(m.Provenance.PrunedTo))

	payload = appendStringList(payload, m.Labels)
	payload = appendStringList(payload, m.Transitions)

	featKeys := make([]string, 0, len(m.Weights))
	for k := range m.Weights {
		featKeys = append(featKeys, k)
	}
	sort.Strings(featKeys)
	payload = binary.AppendUvarint(payload, uint64(len(featKeys)))
	for _, feat := range featKeys {
		payload = appendString(payload, feat)
		row := m.Weights[feat]
		idxs := make([]int, 0, len(row))
		for t := range row {
			ti, ok := transIdx[t]
			if !ok {
				return nil, uderror.ModelLoadError{
					Msg: fmt.Sprintf("weight refers to unknown transition %s", t),
				}
			}
			idxs = append(idxs, ti)
		}
		sort.Ints(idxs)
		payload = binary.AppendUvarint(payload, uint64(len(idxs)))
		for _, ti := range idxs {
			payload = binary.AppendUvarint(payload, uint64(ti))
			payload = appendFloat(payload, row[m.Transitions[ti]])
		}
	}

	ans := make([]byte, binaryHeaderSize, binaryHeaderSize+len(payload))
	copy(ans, binaryMagic)
	ans[10] = EndianLittle
	ans[11] = TypeDepParser
	checksum := sha256.Sum256(payload)
	copy(ans[checksumOffset:], checksum[:])
	return append(ans, payload...), nil
}

// VerifyChecksum recomputes the SHA-256 hash over the payload region
// and compares it with the stored one. Buffers too short to contain a
// header always fail.
func VerifyChecksum(data []byte) bool {
	if len(data) < binaryHeaderSize {
		return false
	}
	checksum := sha256.Sum256(data[payloadOffset:])
	return bytes.Equal(checksum[:], data[checksumOffset:checksumOffset+32])
}

// DecodeBinary parses the binary model form, failing closed on bad
// magic, flags or checksum.
func DecodeBinary(data []byte) (*Model, error) {
	if len(data) < binaryHeaderSize {
		return nil, uderror.ModelLoadError{Msg: "binary model truncated"}
	}
	if string(data[:4]) != binaryMagic {
		return nil, uderror.ModelLoadError{Msg: "bad magic value, not a model file"}
	}
	if data[10] != EndianLittle {
		return nil, uderror.ModelLoadError{
			Msg: fmt.Sprintf("unsupported endianness flag %d", data[10]),
		}
	}
	if data[11] != TypeDepParser {
		return nil, uderror.ModelLoadError{
			Msg: fmt.Sprintf("unexpected model type %d, expected %d", data[11], TypeDepParser),
		}
	}
	if !VerifyChecksum(data) {
		return nil, uderror.ModelLoadError{Msg: "payload checksum mismatch"}
	}

	rd := &payloadReader{data: data[payloadOffset:]}
	var m Model
	m.Version = rd.readString()
	m.Labelset = rd.readString()
	m.TrainedOn = rd.readString()
	m.Provenance.TrainCorpus = rd.readString()
	m.Provenance.CorpusVersion = rd.readString()
	m.Provenance.TrainDate = rd.readString()
	m.Provenance.OracleType = rd.readString()
	m.Provenance.UAS = rd.readFloat()
	m.Provenance.LAS = rd.readFloat()
	m.Provenance.PrunedFrom = int(rd.readUvarint())
	m.Provenance.PrunedTo = int(rd.readUvarint())

	m.Labels = rd.readStringList()
	m.Transitions = rd.readStringList()

	numFeats := rd.readCount()
	m.Weights = make(map[string]map[string]float64, numFeats)
	for i := 0; i < numFeats && rd.err == nil; i++ {
		feat := rd.readString()
		numPairs := rd.readCount()
		row := make(map[string]float64, numPairs)
		for j := 0; j < numPairs && rd.err == nil; j++ {
			ti := rd.readUvarint()
			w := rd.readFloat()
			if ti >= uint64(len(m.Transitions)) {
				return nil, uderror.ModelLoadError{
					Msg: fmt.Sprintf("weight transition index %d out of range", ti),
				}
			}
			row[m.Transitions[ti]] = w
		}
		m.Weights[feat] = row
	}
	if rd.err != nil {
		return nil, uderror.ModelLoadError{
			Msg: fmt.Sprintf("corrupted model payload: %s", rd.err),
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadBinary reads and decodes a binary model file.
func LoadBinary(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, uderror.ModelLoadError{
			Msg: fmt.Sprintf("failed to read model file: %s", err),
		}
	}
	return DecodeBinary(data)
}

// ------------------

func appendString(dst []byte, s string) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(s)))
	return append(dst, s...)
}

func appendFloat(dst []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(dst, math.Float64bits(v))
}

func appendStringList(dst []byte, items []string) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(items)))
	for _, s := range items {
		dst = appendString(dst, s)
	}
	return dst
}

type payloadReader struct {
	data []byte
	pos  int
	err  error
}

func (rd *payloadReader) fail() {
	if rd.err == nil {
		rd.err = fmt.Errorf("unexpected end of payload at offset %d", rd.pos)
	}
}

func (rd *payloadReader) readUvarint() uint64 {
	if rd.err != nil {
		return 0
	}
	v, n := binary.Uvarint(rd.data[rd.pos:])
	if n <= 0 {
		rd.fail()
		return 0
	}
	rd.pos += n
	return v
}

// readCount reads a uvarint describing a string length or an item
// count. Every counted item occupies at least one payload byte, so a
// value exceeding the remaining payload cannot be valid and is
// rejected here, before it can drive a slice expression or an
// allocation.
func (rd *payloadReader) readCount() int {
	v := rd.readUvarint()
	if rd.err != nil {
		return 0
	}
	if v > uint64(len(rd.data)-rd.pos) {
		rd.fail()
		return 0
	}
	return int(v)
}

func (rd *payloadReader) readString() string {
	size := rd.readCount()
	if rd.err != nil {
		return ""
	}
	ans := string(rd.data[rd.pos : rd.pos+size])
	rd.pos += size
	return ans
}

func (rd *payloadReader) readFloat() float64 {
	if rd.err != nil {
		return 0
	}
	if rd.pos+8 > len(rd.data) {
		rd.fail()
		return 0
	}
	bits := binary.LittleEndian.Uint64(rd.data[rd.pos:])
	rd.pos += 8
	return math.Float64frombits(bits)
}

func (rd *payloadReader) readStringList() []string {
	size := rd.readCount()
	ans := make([]string, 0, size)
	for i := 0; i < size && rd.err == nil; i++ {
		ans = append(ans, rd.readString())
	}
	return ans
}
