package base

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"github.com/minio/sha256-simd"
)

var LogFingerprint = NewLogCategory("Fingerprint")

/***************************************
 * Fingerprint
 ***************************************/

type Fingerprint [sha256.Size]byte

func (x Fingerprint) Slice() []byte {
	return x[:]
}
func (x Fingerprint) String() string {
	return hex.EncodeToString(x[:])
}
func (x Fingerprint) ShortString() string {
	return hex.EncodeToString(x[:8])
}
func (x Fingerprint) Valid() bool {
	for _, it := range x {
		if it != 0 {
			return true
		}
	}
	return false
}
func (x *Fingerprint) Set(str string) error {
	data, err := hex.DecodeString(str)
	if err != nil {
		return err
	}
	if len(data) != sha256.Size {
		return fmt.Errorf("fingerprint: unexpected string length '%s'", str)
	}
	copy(x[:], data)
	return nil
}
func (x Fingerprint) MarshalText() ([]byte, error) {
	return UnsafeBytesFromString(x.String()), nil
}
func (x *Fingerprint) UnmarshalText(data []byte) error {
	return x.Set(UnsafeStringFromBytes(data))
}

/***************************************
 * Digester
 ***************************************/

// hashes an ordered sequence of key/value pairs, each field is length-prefixed
type Digester struct {
	hash hash.Hash
}

func NewDigester(seed Fingerprint) Digester {
	result := Digester{hash: sha256.New()}
	result.hash.Write(seed[:])
	return result
}

func (x Digester) WriteString(key, value string) {
	fmt.Fprintf(x.hash, "%d:%s=%d:%s;", len(key), key, len(value), value)
}
func (x Digester) WriteStringer(key string, value fmt.Stringer) {
	x.WriteString(key, value.String())
}
func (x Digester) Sum() (result Fingerprint) {
	copy(result[:], x.hash.Sum(nil))
	return
}

func ReaderFingerprint(rd io.Reader, seed Fingerprint) (result Fingerprint, err error) {
	digester := sha256.New()
	digester.Write(seed[:])

	if _, err = io.Copy(digester, rd); err == nil {
		copy(result[:], digester.Sum(nil))
	}
	return
}

func StringFingerprint(in string) Fingerprint {
	return sha256.Sum256(UnsafeBytesFromString(in))
}
