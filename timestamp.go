// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"encoding/binary"
	"fmt"
	"time"
)

const (
	maxUint32  = 1<<32 - 1
	maxUint34  = 1<<34 - 1
	maxNanos30 = 1 << 30
)

// encodeTimestampPayload returns the extension type id (-1) and the
// smallest lossless wire payload (4, 8, or 12 bytes) for t, mirroring
// Writer's smallest-representation rule for every other value kind.
func encodeTimestampPayload(t time.Time) (extType int8, payload []byte) {
	sec := t.Unix()
	nsec := int64(t.Nanosecond())

	if nsec == 0 && sec >= 0 && sec <= maxUint32 {
		payload = make([]byte, 4)
		binary.BigEndian.PutUint32(payload, uint32(sec))
		return extTimestampType, payload
	}
	if nsec < maxNanos30 && sec >= 0 && sec <= maxUint34 {
		payload = make([]byte, 8)
		v := uint64(nsec)<<34 | uint64(sec)
		binary.BigEndian.PutUint64(payload, v)
		return extTimestampType, payload
	}
	payload = make([]byte, 12)
	binary.BigEndian.PutUint32(payload[0:4], uint32(nsec))
	binary.BigEndian.PutUint64(payload[4:12], uint64(sec))
	return extTimestampType, payload
}

// decodeTimestampPayload decodes a timestamp extension payload of length
// 4, 8, or 12 as defined by the MessagePack timestamp extension spec.
// Any other length, or a nanosecond field >= 1e9, fails ErrInvalidValue.
func decodeTimestampPayload(payload []byte) (time.Time, error) {
	switch len(payload) {
	case 4:
		sec := binary.BigEndian.Uint32(payload)
		return time.Unix(int64(sec), 0).UTC(), nil
	case 8:
		v := binary.BigEndian.Uint64(payload)
		nsec := v >> 34
		sec := v & maxUint34
		if nsec >= 1e9 {
			return time.Time{}, fmt.Errorf("timestamp nanoseconds %d out of range: %w", nsec, ErrInvalidValue)
		}
		return time.Unix(int64(sec), int64(nsec)).UTC(), nil
	case 12:
		nsec := binary.BigEndian.Uint32(payload[0:4])
		sec := int64(binary.BigEndian.Uint64(payload[4:12]))
		if nsec >= 1e9 {
			return time.Time{}, fmt.Errorf("timestamp nanoseconds %d out of range: %w", nsec, ErrInvalidValue)
		}
		return time.Unix(sec, int64(nsec)).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("timestamp payload length %d: %w", len(payload), ErrInvalidValue)
	}
}
