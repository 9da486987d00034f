package mogdev

import "bytes"

// incompatibleMarker is the literal response of firmware predating the
// version query.
const incompatibleMarker = "Command not defined"

// microKey is the component key used when the version response carries no
// component separators: the bare value is the microcontroller version.
const microKey = "UC"

// parseVersions parses a version response into a component→version mapping.
//
// New firmware separates components with commas, old firmware with
// newlines; entries beginning with "OK" are markers and skipped. A response
// without any colon is a single bare version reported under the "UC" key.
func parseVersions(resp []byte) (*Dict, error) {
	if string(resp) == incompatibleMarker {
		return nil, ErrIncompatibleFirmware
	}

	vers := newDict()

	if !bytes.ContainsRune(resp, ':') {
		vers.set(microKey, string(bytes.TrimSpace(resp)))

		return vers, nil
	}

	sep := []byte("\n")
	if bytes.ContainsRune(resp, ',') {
		sep = []byte(",")
	}

	for _, entry := range bytes.Split(resp, sep) {
		if bytes.HasPrefix(entry, []byte(okPrefix)) {
			continue
		}

		name, value, ok := bytes.Cut(entry, []byte(":"))
		if !ok {
			return nil, &ProtocolError{Reason: "malformed version entry", Response: entry}
		}

		vers.set(string(bytes.TrimSpace(name)), string(bytes.TrimSpace(value)))
	}

	return vers, nil
}
