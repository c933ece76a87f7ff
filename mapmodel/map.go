package mapmodel

import (
	"fmt"
	"sort"

	"github.com/vgraph/mapcore/errs"
)

// Map is the live SLAM map: the set of Landmarks and Keyframes a tracking
// session maintains, plus the spanning-tree roots and the next-id
// counters the rebuilder recomputes on load.
type Map struct {
	Landmarks map[uint32]*Landmark
	Keyframes map[uint32]*Keyframe

	// KeyframeOrigins holds the spanning-tree root(s); phase B of the
	// rebuilder pushes the smallest-id keyframe here before growing the
	// tree.
	KeyframeOrigins []*Keyframe

	MaxKeyframeID  uint32
	NextKeyframeID uint32
	MaxLandmarkID  uint32
	NextLandmarkID uint32

	// published guards Publish against being called twice on the same Map
	// without an intervening Clear.
	published bool
}

// NewMap returns an empty map ready to receive published landmarks and
// keyframes.
func NewMap() *Map {
	return &Map{
		Landmarks: make(map[uint32]*Landmark),
		Keyframes: make(map[uint32]*Keyframe),
	}
}

// AddLandmark inserts l into the map's landmark set, keyed by id.
func (m *Map) AddLandmark(l *Landmark) {
	m.Landmarks[l.ID] = l
}

// AddKeyframe inserts kf into the map's keyframe set, keyed by id.
func (m *Map) AddKeyframe(kf *Keyframe) {
	m.Keyframes[kf.ID] = kf
}

// Keyframe looks up a keyframe by id. Unlike the rebuilder's internal
// assembly maps, which treat a missing id as a dangling reference to warn
// about and skip, this is the strict lookup a host uses once the map is
// published: an unknown id is always a caller error.
func (m *Map) Keyframe(id uint32) (*Keyframe, error) {
	kf, ok := m.Keyframes[id]
	if !ok {
		return nil, fmt.Errorf("%w: keyframe %d", errs.ErrKeyframeNotFound, id)
	}

	return kf, nil
}

// Landmark looks up a landmark by id. See Keyframe for why this differs
// from the rebuilder's forgiving internal lookups.
func (m *Map) Landmark(id uint32) (*Landmark, error) {
	l, ok := m.Landmarks[id]
	if !ok {
		return nil, fmt.Errorf("%w: landmark %d", errs.ErrLandmarkNotFound, id)
	}

	return l, nil
}

// SortedLandmarks returns every landmark in ascending id order, the
// ordering save and the rebuilder's phase D both require.
func (m *Map) SortedLandmarks() []*Landmark {
	out := make([]*Landmark, 0, len(m.Landmarks))
	for _, l := range m.Landmarks {
		out = append(out, l)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// SortedKeyframes returns every keyframe in ascending id order, the
// ordering save and the rebuilder's phase A/B both require.
func (m *Map) SortedKeyframes() []*Keyframe {
	out := make([]*Keyframe, 0, len(m.Keyframes))
	for _, kf := range m.Keyframes {
		out = append(out, kf)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Clear empties the map's landmark and keyframe sets along with the
// spanning-tree roots, releasing every reference, and resets the Publish
// guard so the Map can receive another load. Load does not call it: a
// caller reusing a Map as a WithTarget destination calls Clear between
// loads.
func (m *Map) Clear() {
	m.Landmarks = make(map[uint32]*Landmark)
	m.Keyframes = make(map[uint32]*Keyframe)
	m.KeyframeOrigins = nil
	m.published = false
}

// Publish marks m as having received a completed load's rebuilt vectors.
// It returns ErrAlreadyPublished if m was already published by an earlier
// load and hasn't been Clear-ed since, the guard against publishing two
// loads into the same Map.
func (m *Map) Publish() error {
	if m.published {
		return fmt.Errorf("%w", errs.ErrAlreadyPublished)
	}

	m.published = true

	return nil
}
