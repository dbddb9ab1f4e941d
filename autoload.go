// Copyright © Michael Smith <mikesmiffy128@gmail.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted, provided that the above
// copyright notice and this permission notice appear in all copies.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.

package sst

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/afero"
)

// Version is the plugin's own release version, printed by
// sst_printversion and compared against nothing else; it has no
// semantic-versioning contract with the host.
const Version = "0.1.0"

// autoloadFileName is addons/SourceSpeedrunTools.vdf's base name (§6).
const autoloadFileName = "SourceSpeedrunTools.vdf"

// ErrCrossDrive is returned when the mod directory and the plugin
// module live on different Windows drives: a VDF-relative path cannot
// cross a drive letter, so autoload is refused outright rather than
// written wrong.
var ErrCrossDrive = errors.New("sst: mod directory and plugin module are on different drives")

// AutoloadWriter manages addons/SourceSpeedrunTools.vdf, the only
// persistent on-disk state SST keeps (§6). fs is an afero.Fs rather than
// bare os calls so the tests (§8 scenario 4's expected-path case and the
// cross-drive refusal) can run against an in-memory filesystem instead of
// real Windows paths.
type AutoloadWriter struct {
	fs         afero.Fs
	modDir     string
	modulePath string
}

// NewAutoloadWriter binds a writer to the game's mod directory and the
// on-disk path of the plugin module itself, both supplied by the host
// at Load time.
func NewAutoloadWriter(fs afero.Fs, modDir, modulePath string) *AutoloadWriter {
	return &AutoloadWriter{fs: fs, modDir: modDir, modulePath: modulePath}
}

func (w *AutoloadWriter) vdfPath() string {
	return joinPath(w.modDir, "addons", autoloadFileName)
}

// Enable writes the autoload VDF, refusing if modulePath isn't under
// modDir or the two are on different drives.
func (w *AutoloadWriter) Enable() error {
	rel, err := relativeModulePath(w.modDir, w.modulePath)
	if err != nil {
		return err
	}
	content := fmt.Sprintf("Plugin\n{\n\tfile\t\t\"%s\"\n}\n", rel)

	if err := w.fs.MkdirAll(joinPath(w.modDir, "addons"), 0o755); err != nil {
		return fmt.Errorf("sst: autoload enable: %w", err)
	}
	if err := afero.WriteFile(w.fs, w.vdfPath(), []byte(content), 0o644); err != nil {
		return fmt.Errorf("sst: autoload enable: %w", err)
	}
	glog.Infof("sst: wrote autoload file %s", w.vdfPath())
	return nil
}

// Disable removes the autoload VDF; removing an already-absent file is
// not an error, matching the idempotent "disable" a user expects from a
// console command.
func (w *AutoloadWriter) Disable() error {
	err := w.fs.Remove(w.vdfPath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("sst: autoload disable: %w", err)
	}
	glog.Infof("sst: removed autoload file %s", w.vdfPath())
	return nil
}

// Enabled reports whether the autoload VDF currently exists.
func (w *AutoloadWriter) Enabled() bool {
	_, err := w.fs.Stat(w.vdfPath())
	return err == nil
}

// relativeModulePath computes the VDF's "file" value: modulePath's
// location relative to modDir, using manual path-segment splitting
// (rather than path/filepath, whose separator semantics are fixed to the
// *build* host's GOOS) so the Windows-drive-letter scenario in §8 is
// exercisable from any build host, including the in-memory afero
// filesystem used in tests.
func relativeModulePath(modDir, modulePath string) (string, error) {
	modDrive := driveLetter(modDir)
	pathDrive := driveLetter(modulePath)
	if modDrive != "" && pathDrive != "" && !strings.EqualFold(modDrive, pathDrive) {
		return "", ErrCrossDrive
	}

	baseSegs := splitPath(stripDrive(modDir))
	fullSegs := splitPath(stripDrive(modulePath))
	if len(fullSegs) < len(baseSegs) {
		return "", fmt.Errorf("sst: autoload: %q is not under mod directory %q", modulePath, modDir)
	}
	for i, seg := range baseSegs {
		if !strings.EqualFold(seg, fullSegs[i]) {
			return "", fmt.Errorf("sst: autoload: %q is not under mod directory %q", modulePath, modDir)
		}
	}
	return strings.Join(fullSegs[len(baseSegs):], "/"), nil
}

// driveLetter returns the one-character Windows drive letter prefixing
// p ("C" for "C:\Games\Foo"), or "" if p has none.
func driveLetter(p string) string {
	if len(p) >= 2 && p[1] == ':' {
		return strings.ToUpper(p[:1])
	}
	return ""
}

func stripDrive(p string) string {
	if driveLetter(p) != "" {
		return p[2:]
	}
	return p
}

// splitPath breaks p on both '/' and '\\' and drops empty segments, so
// Windows-style and Unix-style paths compare equally regardless of which
// separator the build host's path/filepath would have used.
func splitPath(p string) []string {
	p = strings.ReplaceAll(p, `\`, "/")
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// joinPath joins segments with '/', afero's own separator convention
// regardless of host OS (afero.MemMapFs and afero.OsFs both accept '/'
// on Windows too). A leading separator on the first segment is kept, so
// an absolute Unix mod directory stays absolute.
func joinPath(segs ...string) string {
	var parts []string
	for _, s := range segs {
		parts = append(parts, splitPath(s)...)
	}
	joined := strings.Join(parts, "/")
	if len(segs) > 0 && (strings.HasPrefix(segs[0], "/") || strings.HasPrefix(segs[0], `\`)) {
		return "/" + joined
	}
	return joined
}

// registerCoreCommands installs the always-present commands named in §6:
// sst_autoload_enable, sst_autoload_disable and sst_printversion. Unlike
// feature-owned commands (declared via marker.go's DefCcmd and collected
// by internal/featscan), these three exist regardless of which features
// a build includes, so they're registered directly here rather than
// through the generated table.
func registerCoreCommands(reg *ConRegistry, autoload *AutoloadWriter) {
	enable := &ConCommand{
		Name: "sst_autoload_enable",
		Help: "make this SST build load automatically with the game",
		Callback: func(argv []string) {
			if err := autoload.Enable(); err != nil {
				glog.Errorf("sst_autoload_enable: %v", err)
			}
		},
	}
	disable := &ConCommand{
		Name: "sst_autoload_disable",
		Help: "stop this SST build from loading automatically with the game",
		Callback: func(argv []string) {
			if err := autoload.Disable(); err != nil {
				glog.Errorf("sst_autoload_disable: %v", err)
			}
		},
	}
	printVersion := &ConCommand{
		Name: "sst_printversion",
		Help: "print the loaded SST build's version",
		Callback: func(argv []string) {
			glog.Infof("sst: version %s", Version)
		},
	}

	for _, c := range []*ConCommand{enable, disable, printVersion} {
		if err := reg.RegisterCmd(c); err != nil {
			glog.Errorf("sst: registering %s: %v", c.Name, err)
		}
	}
}

// sstUpdatedEnvVar is the one environment variable named in §6: any
// value at all triggers a one-shot new-version message, then is cleared
// so a later in-process reload (or a child process inheriting the
// environment) doesn't repeat it.
const sstUpdatedEnvVar = "SST_UPDATED"

// checkUpdateNotice implements that one-shot behaviour. It's a free
// function taking getenv/unsetenv rather than calling os.Getenv/
// os.Unsetenv directly so a test can exercise it without mutating the
// real process environment.
func checkUpdateNotice(getenv func(string) string, unsetenv func(string) error) {
	if getenv(sstUpdatedEnvVar) == "" {
		return
	}
	glog.Infof("sst: updated to version %s", Version)
	if err := unsetenv(sstUpdatedEnvVar); err != nil {
		glog.Warningf("sst: clearing %s: %v", sstUpdatedEnvVar, err)
	}
}
