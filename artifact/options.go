// Package artifact implements spec.md §4.4: the three binary artifacts
// (mappoints, keyframes, features) plus the textual yaml header, owning
// the single-record-vs-length-delimited-stream layout decision for the
// features artifact.
package artifact

// Options is the option bitmask spec.md §6 defines: the exact bit-for-bit
// choices a save made, persisted in the header so load can reproduce the
// same decoding behavior. New bits append only; never renumber an
// existing one.
type Options uint32

// Option bits, in the fixed ordering spec.md §6 assigns them.
const (
	FeaturesFileDelimited    Options = 1 << 0
	FeaturesFileNotDelimited Options = 1 << 1
	NoMappointsFile          Options = 1 << 2
	NoKeyframesFile          Options = 1 << 3
	NoFeaturesFile           Options = 1 << 4
	NoFeaturesDescriptors    Options = 1 << 5
	OnlyMappointsFeatures    Options = 1 << 6
	NoLoops                  Options = 1 << 7
	KInKeyframe              Options = 1 << 8
	NoDepuration             Options = 1 << 9
	NoSetBad                 Options = 1 << 10
	NoAppendFoundMappoints   Options = 1 << 11
)

var optionNames = []struct {
	bit  Options
	name string
}{
	{FeaturesFileDelimited, "FEATURES_FILE_DELIMITED"},
	{FeaturesFileNotDelimited, "FEATURES_FILE_NOT_DELIMITED"},
	{NoMappointsFile, "NO_MAPPOINTS_FILE"},
	{NoKeyframesFile, "NO_KEYFRAMES_FILE"},
	{NoFeaturesFile, "NO_FEATURES_FILE"},
	{NoFeaturesDescriptors, "NO_FEATURES_DESCRIPTORS"},
	{OnlyMappointsFeatures, "ONLY_MAPPOINTS_FEATURES"},
	{NoLoops, "NO_LOOPS"},
	{KInKeyframe, "K_IN_KEYFRAME"},
	{NoDepuration, "NO_DEPURATION"},
	{NoSetBad, "NO_SET_BAD"},
	{NoAppendFoundMappoints, "NO_APPEND_FOUND_MAPPOINTS"},
}

// Has reports whether every bit set in bit is also set in o.
func (o Options) Has(bit Options) bool {
	return o&bit == bit
}

// Describe returns the human-readable names of every bit set in o, in
// table order — the informational "Options descriptions" header field,
// not parsed on load.
func (o Options) Describe() []string {
	var names []string

	for _, entry := range optionNames {
		if o.Has(entry.bit) {
			names = append(names, entry.name)
		}
	}

	return names
}
