package daemon

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// PIDFile guards against two daemons serving the same state directory.
// Acquire claims the file, replacing it only when the recorded process
// is gone.
type PIDFile struct {
	path string
}

func NewPIDFile(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Acquire writes the current pid. It fails when another live process
// already holds the file.
func (p *PIDFile) Acquire() error {
	if pid, err := p.Read(); err == nil && pid > 0 && processExists(pid) {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}

	if info, err := os.Lstat(p.path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("pid file %s is a symlink", p.path)
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale pid file: %w", err)
	}

	f, err := os.OpenFile(p.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("create pid file: %w", err)
	}
	defer f.Close()

	_, err = fmt.Fprintln(f, os.Getpid())
	return err
}

// Read returns the recorded pid, or 0 when no pid file exists.
func (p *PIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return 0, nil
	}

	pid, err := strconv.Atoi(content)
	if err != nil {
		return 0, fmt.Errorf("invalid pid file %s: %w", p.path, err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid pid %d in %s", pid, p.path)
	}
	return pid, nil
}

// IsProcessAlive reports whether the recorded process still exists.
func (p *PIDFile) IsProcessAlive() bool {
	pid, err := p.Read()
	if err != nil || pid == 0 {
		return false
	}
	return processExists(pid)
}

func (p *PIDFile) Remove() error {
	if info, err := os.Lstat(p.path); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("refusing to remove pid file %s: is a symlink", p.path)
		}
	}
	err := os.Remove(p.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (p *PIDFile) Path() string {
	return p.path
}
