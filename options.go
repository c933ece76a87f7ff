// Package mapcore is the top-level facade over the persistence subsystem:
// Save and Load, the two orchestrator entry points spec.md §4.7 defines,
// plus the Options bitmask every other package in this module treats as
// the single source of truth for which optional behaviors are active.
//
// The subpackages do the real work — record and valuecodec implement the
// wire codecs, artifact reads and writes the three binary files plus the
// yaml header, rebuild reconstructs the in-memory graph, depurate repairs
// it before a save. This package only sequences those calls in the order
// spec.md §4.7 and §5 require and owns the working-directory and
// host-pause contracts around them.
package mapcore

import "github.com/vgraph/mapcore/artifact"

// Options is the option bitmask spec.md §6 defines, persisted verbatim in
// the header's Options field so a later Load reproduces the exact decode
// behavior a Save used. It is a type alias, not a new type, for
// artifact.Options: the artifact package's writer and reader already work
// in terms of these bits, and aliasing avoids a conversion at every call
// across the package boundary.
type Options = artifact.Options

// Option bits, re-exported at the facade for callers who only import the
// root package. See artifact.Options for the authoritative ordering.
const (
	FeaturesFileDelimited    = artifact.FeaturesFileDelimited
	FeaturesFileNotDelimited = artifact.FeaturesFileNotDelimited
	NoMappointsFile          = artifact.NoMappointsFile
	NoKeyframesFile          = artifact.NoKeyframesFile
	NoFeaturesFile           = artifact.NoFeaturesFile
	NoFeaturesDescriptors    = artifact.NoFeaturesDescriptors
	OnlyMappointsFeatures    = artifact.OnlyMappointsFeatures
	NoLoops                  = artifact.NoLoops
	KInKeyframe              = artifact.KInKeyframe
	NoDepuration             = artifact.NoDepuration
	NoSetBad                 = artifact.NoSetBad
	NoAppendFoundMappoints   = artifact.NoAppendFoundMappoints
)
