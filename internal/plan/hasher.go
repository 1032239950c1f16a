package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Key is a content-addressed identity for a Directive: two directives with
// the same Type, StartTime, and Args (regardless of map iteration order)
// produce the same Key. Diff uses Key equality, not deep struct comparison,
// to decide whether an old directive survives unchanged into a new plan.
type Key string

// ComputeKey hashes d's fields in a fixed order, length-prefixing each field
// so that e.g. an empty Type followed by a one-character Arg value can never
// collide with a one-character Type followed by an empty Arg value.
func ComputeKey(d Directive) Key {
	hasher := sha256.New()

	writeField := func(data []byte) {
		length := uint64(len(data))
		lengthBytes := []byte{
			byte(length >> 56),
			byte(length >> 48),
			byte(length >> 40),
			byte(length >> 32),
			byte(length >> 24),
			byte(length >> 16),
			byte(length >> 8),
			byte(length),
		}
		hasher.Write(lengthBytes)
		hasher.Write(data)
	}

	writeField([]byte(d.Type))
	writeField([]byte(fmt.Sprintf("%d", d.StartTime)))

	keys := make([]string, 0, len(d.Args))
	for k := range d.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	writeField([]byte(fmt.Sprintf("%d", len(keys))))
	for _, k := range keys {
		writeField([]byte(k))
		writeField([]byte(fmt.Sprintf("%T:%v", d.Args[k], d.Args[k])))
	}

	return Key(hex.EncodeToString(hasher.Sum(nil)))
}
