package mapcore

import (
	"time"

	"github.com/vgraph/mapcore/host"
)

// pausePollInterval is the busy-wait granularity spec.md §5 describes for
// waiting on a host thread to honor a stop request.
const pausePollInterval = time.Millisecond

// pauseThread requests tc to stop and busy-waits until it reports stopped.
// A nil controller is a no-op — callers are not required to wire every
// seam in host.Capabilities.
func pauseThread(tc host.ThreadController) {
	if tc == nil {
		return
	}

	tc.RequestStop()
	for !tc.IsStopped() {
		time.Sleep(pausePollInterval)
	}
}

// resumeThread resumes tc, if wired.
func resumeThread(tc host.ThreadController) {
	if tc != nil {
		tc.Resume()
	}
}
