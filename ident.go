package fluentsql

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clock returns the current time. Builders stamp created_at and modified_at
// from it.
type Clock func() time.Time

// SystemClock is the default Clock.
func SystemClock() time.Time { return time.Now() }

// Timestamp converts t to Unix epoch seconds, the representation stored in
// created_at and modified_at.
func Timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// FromTimestamp converts Unix epoch seconds back to a UTC time.
func FromTimestamp(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}

// IDGenerator produces the value of the auto-managed id column for an
// inserted row. The identifier is an opaque unique string.
type IDGenerator interface {
	NewID(now time.Time, payload ...any) string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func(now time.Time, payload ...any) string

// NewID implements IDGenerator.
func (f IDGeneratorFunc) NewID(now time.Time, payload ...any) string {
	return f(now, payload...)
}

// HashIDGenerator digests the current time together with the row payload
// with MD5. Collisions are improbable but not impossible; use UUIDGenerator
// when that matters.
type HashIDGenerator struct{}

// NewID implements IDGenerator.
func (HashIDGenerator) NewID(now time.Time, payload ...any) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%f", Timestamp(now)))
	for _, p := range payload {
		sb.WriteString(fmt.Sprint(p))
	}
	sum := md5.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// UUIDGenerator returns random (version 4) UUIDs and ignores the payload.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID(time.Time, ...any) string {
	return uuid.NewString()
}

// DefaultIDGenerator is used by builders that were not given one.
var DefaultIDGenerator IDGenerator = HashIDGenerator{}
