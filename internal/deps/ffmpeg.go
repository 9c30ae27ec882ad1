package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// CheckFFmpeg reports the ffmpeg binary clip extraction will execute.
//
// A command containing a path separator is checked in place; a bare name is
// resolved from PATH. An empty command falls back to "ffmpeg".
func CheckFFmpeg(command string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Required for audio clip extraction",
	}

	name := strings.TrimSpace(command)
	if name == "" {
		name = "ffmpeg"
	}

	if strings.ContainsRune(name, filepath.Separator) {
		result.Command = name
		info, err := os.Stat(name)
		switch {
		case err != nil:
			result.Detail = fmt.Sprintf("binary %q not found", name)
		case !isExecutable(info):
			result.Detail = fmt.Sprintf("%q is not executable", name)
		default:
			result.Available = true
		}
		return result
	}

	if resolved, err := exec.LookPath(name); err == nil {
		result.Command = resolved
		result.Available = true
		return result
	}

	result.Command = name
	result.Detail = fmt.Sprintf("binary %q not found", name)
	return result
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
