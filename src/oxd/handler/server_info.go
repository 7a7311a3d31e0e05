package handler

import (
	"fmt"
	"os"
	"strconv"

	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/serverinfofile"
)

const _infoFileKeyPID = "pid"

// Output the daemon's process id to the Server Info file so that editor integrations can
// confirm that an existing entry still refers to a live process.
// Other connection methods (e.g. JSON-RPC) independently add their fields to the Server Info file.
func outputProcessInfo(infofile serverinfofile.ServerInfoFile) error {
	if err := infofile.UpdateField(_infoFileKeyPID, strconv.Itoa(os.Getpid())); err != nil {
		return fmt.Errorf("outputting pid to info file: %w", err)
	}
	return nil
}
