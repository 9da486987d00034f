// Package mogdev implements a synchronous request/response client for MOG
// laboratory devices speaking the line-oriented text protocol with binary
// block extension, over TCP or USB serial.
//
// A Device owns exactly one transport and supports one request in flight at
// a time; concurrent callers must serialize access externally (one mutex per
// Device, or one Device per goroutine).
//
// Text responses carry no reliable length or terminator across firmware
// versions, so response completion is inferred by a short idle window (the
// settle window). This is a documented approximation: widen the timeouts via
// WithTimeout and WithSettleWindow for slow links rather than expecting exact
// framing.
//
// Basic usage:
//
//	dev, err := mogdev.Connect("10.1.1.23", mogdev.WithTimeout(2*time.Second))
//	if err != nil {
//		// handle error
//	}
//	defer dev.Close()
//
//	resp, err := dev.Cmd("freq,1,80MHz")
package mogdev
