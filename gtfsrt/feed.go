package gtfsrt

import (
	"errors"
	"hash/fnv"
	"math"
	"strconv"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

var ErrEmptyFeed = errors.New("empty gtfs-rt feed")

// Position is one vehicle fix taken from a feed snapshot.
type Position struct {
	VehicleID string
	EntityID  int64
	Time      time.Time
	Lat       float64
	Lon       float64
}

// Decode parses a FeedMessage.
func Decode(data []byte) (*gtfsrtpb.FeedMessage, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFeed
	}
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return nil, err
	}
	return &fm, nil
}

// HeaderTime returns the snapshot timestamp, or the zero time.
func HeaderTime(fm *gtfsrtpb.FeedMessage) time.Time {
	if fm.Header != nil && fm.Header.Timestamp != nil {
		return time.Unix(int64(*fm.Header.Timestamp), 0).UTC()
	}
	return time.Time{}
}

// DecodePositions parses a snapshot and extracts every vehicle carrying a
// position. Vehicles without their own timestamp take the header's.
func DecodePositions(data []byte) ([]Position, error) {
	fm, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Positions(fm), nil
}

func Positions(fm *gtfsrtpb.FeedMessage) []Position {
	headerTS := HeaderTime(fm)
	out := make([]Position, 0, len(fm.Entity))
	for _, e := range fm.Entity {
		vp := e.GetVehicle()
		if vp == nil || vp.Position == nil {
			continue
		}
		ts := headerTS
		if vp.Timestamp != nil {
			ts = time.Unix(int64(*vp.Timestamp), 0).UTC()
		}
		if ts.IsZero() {
			continue
		}
		id := vp.GetVehicle().GetId()
		if id == "" {
			id = e.GetId()
		}
		out = append(out, Position{
			VehicleID: id,
			EntityID:  EntityID(id),
			Time:      ts,
			Lat:       float64(vp.Position.GetLatitude()),
			Lon:       float64(vp.Position.GetLongitude()),
		})
	}
	return out
}

// EntityID maps a feed vehicle id to a track id: numeric ids are kept,
// anything else is hashed to a non-negative FNV-1a value.
func EntityID(vehicleID string) int64 {
	if n, err := strconv.ParseInt(vehicleID, 10, 64); err == nil {
		return n
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(vehicleID))
	return int64(h.Sum64() & math.MaxInt64)
}
