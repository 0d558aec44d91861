// Package models defines the filesystem statistics record forwarded to the collector.
// These structures are serialized to JSON both on the wire and in debug output.
package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// Percent is a percentage that may be non-finite when the filesystem reports
// zero total blocks. Non-finite values serialize as JSON null.
type Percent float64

// MarshalJSON implements json.Marshaler for Percent.
func (p Percent) MarshalJSON() ([]byte, error) {
	f := float64(p)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

// IsFinite reports whether the percentage holds a real number.
func (p Percent) IsFinite() bool {
	f := float64(p)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Statvfs holds the raw statvfs counters for one filesystem plus the derived
// usage percentages.
type Statvfs struct {
	Bsize   uint64 `json:"bsize"`
	Frsize  uint64 `json:"frsize"`
	Blocks  uint64 `json:"blocks"`
	Bfree   uint64 `json:"bfree"`
	Bavail  uint64 `json:"bavail"`
	Files   uint64 `json:"files"`
	Ffree   uint64 `json:"ffree"`
	Favail  uint64 `json:"favail"`
	Fsid    uint64 `json:"fsid"`
	Flagstr string `json:"flagstr"`
	Namemax uint64 `json:"namemax"`

	UsedPerc Percent `json:"used_perc"`
	FreePerc Percent `json:"free_perc"`
}

// Envelope is the record posted to the collector: a single "statvfs" key.
// The msg tag names the key for the fluent logger's struct conversion.
type Envelope struct {
	Statvfs Statvfs `json:"statvfs" msg:"statvfs"`
}

// Pretty returns the indented JSON form of the envelope used for debug output.
func (e Envelope) Pretty() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}
